package handler

import (
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
)

const (
	selectedAccountCookie  = "selected_account"
	recentNavigationCookie = "recent_navigation"

	cookieMaxAge   = 30 * 24 * time.Hour
	historyMaxSize = 10

	// браузеры отбрасывают cookie длиннее 4096 байт вместе с атрибутами
	cookieValueMaxSize = 4000
)

// writeCookie сохраняет v как JSON, экранированный для значения cookie
func (h *Handler) writeCookie(w http.ResponseWriter, name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(string(raw)),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// readCookie возвращает false, если cookie нет или ее не удалось разобрать
func readCookie(r *http.Request, name string, v any) bool {
	c, err := r.Cookie(name)
	if err != nil {
		return false
	}
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), v) == nil
}

// pushHistory ставит entry первой, убирает прежние записи с тем же путем
// и обрезает историю до historyMaxSize
func pushHistory(history []NavigationEntry, entry NavigationEntry) []NavigationEntry {
	out := make([]NavigationEntry, 0, historyMaxSize)
	out = append(out, entry)
	for _, e := range history {
		if len(out) == historyMaxSize {
			break
		}
		if e.Path == entry.Path {
			continue
		}
		out = append(out, e)
	}
	return out
}

// fitHistory отбрасывает самые старые записи, пока закодированная история
// не поместится в cookieValueMaxSize
func fitHistory(history []NavigationEntry) ([]NavigationEntry, error) {
	for len(history) > 0 {
		raw, err := json.Marshal(history)
		if err != nil {
			return nil, err
		}
		if len(url.QueryEscape(string(raw))) <= cookieValueMaxSize {
			return history, nil
		}
		history = history[:len(history)-1]
	}
	return history, nil
}
