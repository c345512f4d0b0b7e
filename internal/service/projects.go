package service

import (
	"context"
	"net/http"

	"github.com/hitoshi/suivi/internal/httpclient"
	"github.com/hitoshi/suivi/internal/model"
)

const projectsPath = "/api/projets/"

// ProjectService はプロジェクトAPIを呼び出す。
type ProjectService struct {
	client *httpclient.Client
}

// List はフィルタに一致するプロジェクトを返す。
func (s *ProjectService) List(ctx context.Context, f model.ProjectFilters) ([]model.Project, error) {
	return get[[]model.Project](ctx, s.client, projectsPath, ProjectQuery(f))
}

// Detail はプロジェクト1件を返す。
func (s *ProjectService) Detail(ctx context.Context, id int) (model.Project, error) {
	return get[model.Project](ctx, s.client, itemPath(projectsPath, id), nil)
}

// Create はプロジェクトを作成する。
func (s *ProjectService) Create(ctx context.Context, p model.CreateProjectPayload) (model.Project, error) {
	return send[model.Project](ctx, s.client, http.MethodPost, projectsPath, p)
}

// Equipment はプロジェクトに属する設備を返す。
func (s *ProjectService) Equipment(ctx context.Context, id int) ([]model.Equipment, error) {
	return get[[]model.Equipment](ctx, s.client, actionPath(projectsPath, id, "equipements"), nil)
}
