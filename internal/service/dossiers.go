package service

import (
	"context"
	"net/http"

	"github.com/hitoshi/suivi/internal/httpclient"
	"github.com/hitoshi/suivi/internal/model"
)

const dossiersPath = "/api/dossiers/"

// DossierService は書類APIを呼び出す。
type DossierService struct {
	client *httpclient.Client
}

// List はフィルタに一致する書類を返す。
func (s *DossierService) List(ctx context.Context, f model.DossierFilters) ([]model.Dossier, error) {
	return get[[]model.Dossier](ctx, s.client, dossiersPath, DossierQuery(f))
}

// Detail は書類1件を返す。
func (s *DossierService) Detail(ctx context.Context, id int) (model.Dossier, error) {
	return get[model.Dossier](ctx, s.client, itemPath(dossiersPath, id), nil)
}

// Create は書類を作成する。
func (s *DossierService) Create(ctx context.Context, p model.CreateDossierPayload) (model.Dossier, error) {
	return send[model.Dossier](ctx, s.client, http.MethodPost, dossiersPath, p)
}

// Validate は書類を検証済みにする。payloadがnilならボディを送らない。
func (s *DossierService) Validate(ctx context.Context, id int, payload *model.DossierDecisionPayload) (model.StatusResponse, error) {
	var body any
	if payload != nil {
		body = payload
	}
	return send[model.StatusResponse](ctx, s.client, http.MethodPost, actionPath(dossiersPath, id, "valider"), body)
}

// Reject は書類を却下する。
func (s *DossierService) Reject(ctx context.Context, id int, payload model.DossierDecisionPayload) (model.StatusResponse, error) {
	return send[model.StatusResponse](ctx, s.client, http.MethodPost, actionPath(dossiersPath, id, "refuser"), payload)
}

// Courriers は書類に添付された郵便物を返す。
func (s *DossierService) Courriers(ctx context.Context, id int) ([]model.Courrier, error) {
	return get[[]model.Courrier](ctx, s.client, actionPath(dossiersPath, id, "courriers"), nil)
}

// Stats は書類の集計を返す。
func (s *DossierService) Stats(ctx context.Context) (model.DossierStats, error) {
	return get[model.DossierStats](ctx, s.client, dossiersPath+"stats/", nil)
}
