package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type OwnerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// SignupRequest - регистрация аккаунта вместе с владельцем
type SignupRequest struct {
	Name  string       `json:"name" validate:"required,max=255"`
	Owner OwnerRequest `json:"owner"`
}

type SignupResponse struct {
	Account AccountResponse `json:"account"`
	Session LoginResponse   `json:"session"`
}

type AccountRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type AccountResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=255"`
	Role     string `json:"role" validate:"omitempty,oneof=owner admin member superadmin"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=255"`
	Role     *string `json:"role" validate:"omitempty,oneof=owner admin member superadmin"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
}

type SetIsActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type CreatePipelineRequest struct {
	Name   string   `json:"name" validate:"required,max=255"`
	Stages []string `json:"stages" validate:"omitempty,dive,required,max=255"`
}

type RenameRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type ActionRefResponse struct {
	Ref      string `json:"ref"`
	ActionID string `json:"action_id"`
}

type StageResponse struct {
	ID         string              `json:"id"`
	PipelineID string              `json:"pipeline_id"`
	Name       string              `json:"name"`
	Color      string              `json:"color"`
	Position   int                 `json:"position"`
	Actions    []ActionRefResponse `json:"actions"`
}

type PipelineResponse struct {
	ID        string          `json:"id"`
	AccountID string          `json:"account_id"`
	Name      string          `json:"name"`
	Stages    []StageResponse `json:"stages,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

type BoardStageResponse struct {
	StageResponse
	LeadCount int `json:"lead_count"`
}

type BoardResponse struct {
	Pipeline PipelineResponse     `json:"pipeline"`
	Stages   []BoardStageResponse `json:"stages"`
}

type CreateStageRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Color string `json:"color" validate:"omitempty,hexcolor,len=7"`
}

type ColorRequest struct {
	Color string `json:"color" validate:"required,hexcolor,len=7"`
}

// InsertActionRequest - без index действие добавляется в конец
type InsertActionRequest struct {
	ActionID string `json:"action_id" validate:"required"`
	Index    *int   `json:"index" validate:"omitempty,min=-1"`
}

type MoveStageRequest struct {
	From *int `json:"from" validate:"required,min=0"`
	To   *int `json:"to" validate:"required,min=0"`
}

type PositionRequest struct {
	StageID string `json:"stage_id" validate:"required"`
	Index   *int   `json:"index" validate:"required,min=-1"`
}

type MoveActionRequest struct {
	Source PositionRequest `json:"source"`
	Target PositionRequest `json:"target"`
}

type DropRequest struct {
	DraggedItemID string           `json:"dragged_item_id" validate:"required"`
	DragSource    string           `json:"drag_source" validate:"required,oneof=library sequence"`
	Origin        *PositionRequest `json:"origin"`
	DropTarget    PositionRequest  `json:"drop_target"`
}

type ActionInsertResponse struct {
	Ref      string           `json:"ref,omitempty"`
	Pipeline PipelineResponse `json:"pipeline"`
}

type ActionResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Channel     string `json:"channel"`
}

type LeadRequest struct {
	PipelineID string          `json:"pipeline_id"`
	StageID    string          `json:"stage_id"`
	FirstName  string          `json:"first_name" validate:"max=255"`
	LastName   string          `json:"last_name" validate:"max=255"`
	Email      string          `json:"email" validate:"omitempty,email"`
	Phone      string          `json:"phone" validate:"omitempty,max=32"`
	Source     string          `json:"source" validate:"max=64"`
	Value      decimal.Decimal `json:"value"`
}

type MoveLeadRequest struct {
	StageID string `json:"stage_id"`
}

type LeadResponse struct {
	ID         string          `json:"id"`
	AccountID  string          `json:"account_id"`
	PipelineID string          `json:"pipeline_id,omitempty"`
	StageID    string          `json:"stage_id,omitempty"`
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	FullName   string          `json:"full_name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Source     string          `json:"source"`
	Value      decimal.Decimal `json:"value"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

type TemplateRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Channel string `json:"channel" validate:"required,oneof=email sms"`
	Subject string `json:"subject" validate:"max=255"`
	Body    string `json:"body" validate:"required"`
}

type TemplateResponse struct {
	ID        string     `json:"id"`
	AccountID string     `json:"account_id"`
	Name      string     `json:"name"`
	Channel   string     `json:"channel"`
	Subject   string     `json:"subject,omitempty"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type SelectAccountRequest struct {
	AccountID string `json:"account_id" validate:"required"`
}

// SelectedAccount - содержимое cookie selected_account
type SelectedAccount struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
}

type NavigationRequest struct {
	Path  string `json:"path" validate:"required,startswith=/,max=512"`
	Title string `json:"title" validate:"max=255"`
}

// NavigationEntry - запись cookie recent_navigation
type NavigationEntry struct {
	Path      string    `json:"path"`
	Title     string    `json:"title,omitempty"`
	VisitedAt time.Time `json:"visited_at"`
}
