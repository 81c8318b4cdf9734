package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bagdasarian/leadpipe/internal/handler"
)

func SetupRoutes(mux *http.ServeMux, h *handler.Handler, gatherer prometheus.Gatherer) {
	auth := func(fn http.HandlerFunc) http.Handler {
		return h.RequireAuth(fn)
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.Handle("GET /api/auth/me", auth(h.Me))

	mux.HandleFunc("POST /api/accounts", h.Signup)
	mux.Handle("GET /api/accounts", auth(h.ListAccounts))
	mux.Handle("GET /api/accounts/{accountID}", auth(h.GetAccount))
	mux.Handle("PUT /api/accounts/{accountID}", auth(h.UpdateAccount))
	mux.Handle("DELETE /api/accounts/{accountID}", auth(h.DeleteAccount))

	mux.Handle("GET /api/accounts/{accountID}/users", auth(h.ListUsers))
	mux.Handle("POST /api/accounts/{accountID}/users", auth(h.CreateUser))
	mux.Handle("GET /api/users/{userID}", auth(h.GetUser))
	mux.Handle("PUT /api/users/{userID}", auth(h.UpdateUser))
	mux.Handle("POST /api/users/{userID}/active", auth(h.SetIsActive))

	mux.Handle("GET /api/accounts/{accountID}/pipelines", auth(h.ListPipelines))
	mux.Handle("POST /api/accounts/{accountID}/pipelines", auth(h.CreatePipeline))
	mux.Handle("GET /api/pipelines/{pipelineID}", auth(h.GetPipeline))
	mux.Handle("PUT /api/pipelines/{pipelineID}", auth(h.UpdatePipeline))
	mux.Handle("DELETE /api/pipelines/{pipelineID}", auth(h.DeletePipeline))
	mux.Handle("GET /api/pipelines/{pipelineID}/board", auth(h.GetBoard))
	mux.Handle("POST /api/pipelines/{pipelineID}/stages", auth(h.CreateStage))
	mux.Handle("POST /api/pipelines/{pipelineID}/stages/move", auth(h.MoveStage))
	mux.Handle("POST /api/pipelines/{pipelineID}/actions/move", auth(h.MoveAction))
	mux.Handle("POST /api/pipelines/{pipelineID}/drop", auth(h.Drop))

	mux.Handle("PUT /api/stages/{stageID}", auth(h.UpdateStage))
	mux.Handle("DELETE /api/stages/{stageID}", auth(h.DeleteStage))
	mux.Handle("PUT /api/stages/{stageID}/color", auth(h.UpdateStageColor))
	mux.Handle("POST /api/stages/{stageID}/actions", auth(h.InsertAction))
	mux.Handle("DELETE /api/stages/{stageID}/actions/{index}", auth(h.RemoveAction))

	mux.Handle("GET /api/actions", auth(h.ListActions))
	mux.Handle("GET /api/actions/{actionID}", auth(h.GetAction))

	mux.Handle("GET /api/accounts/{accountID}/leads", auth(h.ListLeads))
	mux.Handle("POST /api/accounts/{accountID}/leads", auth(h.CreateLead))
	mux.Handle("GET /api/leads/{leadID}", auth(h.GetLead))
	mux.Handle("PUT /api/leads/{leadID}", auth(h.UpdateLead))
	mux.Handle("DELETE /api/leads/{leadID}", auth(h.DeleteLead))
	mux.Handle("POST /api/leads/{leadID}/stage", auth(h.MoveLead))

	mux.Handle("GET /api/accounts/{accountID}/templates", auth(h.ListTemplates))
	mux.Handle("POST /api/accounts/{accountID}/templates", auth(h.CreateTemplate))
	mux.Handle("GET /api/templates/{templateID}", auth(h.GetTemplate))
	mux.Handle("PUT /api/templates/{templateID}", auth(h.UpdateTemplate))
	mux.Handle("DELETE /api/templates/{templateID}", auth(h.DeleteTemplate))

	mux.Handle("GET /api/session/account", auth(h.GetSelectedAccount))
	mux.Handle("PUT /api/session/account", auth(h.SelectAccount))
	mux.Handle("GET /api/session/history", auth(h.GetHistory))
	mux.Handle("POST /api/session/history", auth(h.PushHistory))
}
