package postgres

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bagdasarian/leadpipe/internal/repository"
)

const (
	accountPrefix  = "acc-"
	userPrefix     = "u"
	pipelinePrefix = "pl-"
	stagePrefix    = "st-"
	leadPrefix     = "ld-"
	templatePrefix = "tpl-"
)

// stringIDToInt снимает обязательный префикс внешнего id и возвращает ключ
// строки. Ключи в базе - integer, поэтому значения вне int32 отклоняются.
func stringIDToInt(prefix, stringID string) (int, error) {
	idStr, ok := strings.CutPrefix(stringID, prefix)
	if !ok || idStr == "" || idStr[0] < '0' || idStr[0] > '9' {
		return 0, repository.ErrInvalidID
	}
	id, err := strconv.ParseInt(idStr, 10, 32)
	if err != nil {
		return 0, repository.ErrInvalidID
	}
	return int(id), nil
}

func intToStringID(prefix string, id int) string {
	return fmt.Sprintf("%s%d", prefix, id)
}

// optionalID - необязательный внешний ключ: пустая строка дает NULL
func optionalID(prefix, stringID string) (sql.NullInt64, error) {
	if stringID == "" {
		return sql.NullInt64{}, nil
	}
	id, err := stringIDToInt(prefix, stringID)
	if err != nil {
		return sql.NullInt64{}, err
	}
	return sql.NullInt64{Int64: int64(id), Valid: true}, nil
}

func optionalIDToString(prefix string, id sql.NullInt64) string {
	if !id.Valid {
		return ""
	}
	return intToStringID(prefix, int(id.Int64))
}

func updatedAtPtr(updatedAt sql.NullTime) *time.Time {
	if !updatedAt.Valid {
		return nil
	}
	t := updatedAt.Time
	return &t
}
