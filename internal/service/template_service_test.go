package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bagdasarian/leadpipe/internal/domain"
	"github.com/bagdasarian/leadpipe/internal/repository"
)

func TestTemplateService_CreateTemplate(t *testing.T) {
	t.Run("html письма очищается", func(t *testing.T) {
		templateRepo := new(MockTemplateRepository)
		service := NewTemplateService(templateRepo)

		templateRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		tpl, err := service.CreateTemplate(context.Background(), &domain.MessageTemplate{
			AccountID: "acc-1",
			Name:      "Welcome",
			Channel:   domain.ChannelEmail,
			Subject:   "Hi",
			Body:      `<p>Hello <b>{{name}}</b></p><script>alert(1)</script><a href="javascript:x()">x</a>`,
		})

		require.NoError(t, err)
		assert.Contains(t, tpl.Body, "<b>{{name}}</b>")
		assert.NotContains(t, tpl.Body, "<script>")
		assert.NotContains(t, tpl.Body, "javascript:")
		templateRepo.AssertExpectations(t)
	})

	t.Run("sms без разметки и темы", func(t *testing.T) {
		templateRepo := new(MockTemplateRepository)
		service := NewTemplateService(templateRepo)

		templateRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		tpl, err := service.CreateTemplate(context.Background(), &domain.MessageTemplate{
			AccountID: "acc-1",
			Name:      "Reminder",
			Channel:   domain.ChannelSMS,
			Subject:   "ignored",
			Body:      "<i>Call</i> us",
		})

		require.NoError(t, err)
		assert.Equal(t, "Call us", tpl.Body)
		assert.Empty(t, tpl.Subject)
	})

	t.Run("ошибка: неизвестный канал", func(t *testing.T) {
		service := NewTemplateService(new(MockTemplateRepository))

		_, err := service.CreateTemplate(context.Background(), &domain.MessageTemplate{
			Name:    "Push",
			Channel: "push",
			Body:    "x",
		})

		assert.True(t, errors.Is(err, domain.ErrValidation))
	})

	t.Run("ошибка: тело состоит только из опасной разметки", func(t *testing.T) {
		service := NewTemplateService(new(MockTemplateRepository))

		_, err := service.CreateTemplate(context.Background(), &domain.MessageTemplate{
			Name:    "Bad",
			Channel: domain.ChannelEmail,
			Body:    "<script>alert(1)</script>",
		})

		assert.True(t, errors.Is(err, domain.ErrValidation))
	})
}

func TestTemplateService_UpdateTemplate(t *testing.T) {
	templateRepo := new(MockTemplateRepository)
	service := NewTemplateService(templateRepo)

	templateRepo.On("GetByID", mock.Anything, "tpl-1").
		Return(&domain.MessageTemplate{ID: "tpl-1", AccountID: "acc-1"}, nil).Once()
	templateRepo.On("Update", mock.Anything, mock.MatchedBy(func(tpl *domain.MessageTemplate) bool {
		return tpl.AccountID == "acc-1"
	})).Return(nil).Once()

	_, err := service.UpdateTemplate(context.Background(), &domain.MessageTemplate{
		ID:        "tpl-1",
		AccountID: "acc-2",
		Name:      "Welcome",
		Channel:   domain.ChannelEmail,
		Body:      "<p>Hi</p>",
	})

	require.NoError(t, err)
	templateRepo.AssertExpectations(t)
}

func TestActionLibraryService(t *testing.T) {
	actionRepo := new(MockActionRepository)
	service := NewActionLibraryService(actionRepo)

	actionRepo.On("List", mock.Anything).Return([]*domain.AutomationAction{{ID: "send-email"}}, nil).Once()
	actionRepo.On("GetByID", mock.Anything, "fax").Return(nil, repository.ErrActionNotFound).Once()

	actions, err := service.ListActions(context.Background())
	require.NoError(t, err)
	assert.Len(t, actions, 1)

	_, err = service.GetAction(context.Background(), "fax")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
