package service

import (
	"context"
	"net/http"

	"github.com/hitoshi/suivi/internal/httpclient"
	"github.com/hitoshi/suivi/internal/model"
)

const courriersPath = "/api/courriers/"

// CourrierService は郵便物APIを呼び出す。
type CourrierService struct {
	client *httpclient.Client
}

// List はフィルタに一致する郵便物を返す。
func (s *CourrierService) List(ctx context.Context, f model.CourrierFilters) ([]model.Courrier, error) {
	return get[[]model.Courrier](ctx, s.client, courriersPath, CourrierQuery(f))
}

// Detail は郵便物1件を返す。
func (s *CourrierService) Detail(ctx context.Context, id int) (model.Courrier, error) {
	return get[model.Courrier](ctx, s.client, itemPath(courriersPath, id), nil)
}

// Create は郵便物を作成する。
func (s *CourrierService) Create(ctx context.Context, p model.CreateCourrierPayload) (model.Courrier, error) {
	return send[model.Courrier](ctx, s.client, http.MethodPost, courriersPath, p)
}

// Documents は郵便物に添付された文書を返す。
func (s *CourrierService) Documents(ctx context.Context, id int) ([]model.Document, error) {
	return get[[]model.Document](ctx, s.client, actionPath(courriersPath, id, "documents"), nil)
}
