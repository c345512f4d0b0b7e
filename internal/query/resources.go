package query

import (
	"context"

	"github.com/hitoshi/suivi/internal/model"
	"github.com/hitoshi/suivi/internal/service"
)

// 一覧クエリの型。
type (
	ProjectsQuery  = Query[model.ProjectFilters, []model.Project]
	EquipmentQuery = Query[model.EquipmentFilters, []model.Equipment]
	DossiersQuery  = Query[model.DossierFilters, []model.Dossier]
	CourriersQuery = Query[model.CourrierFilters, []model.Courrier]
	HistoryQuery   = Query[model.HistoryFilters, []model.HistoryEntry]
	RegionsQuery   = Query[struct{}, []model.Region]
)

// NewProjects はプロジェクト一覧のクエリを生成する。
func NewProjects(ctx context.Context, svc *service.ProjectService, initial model.ProjectFilters, opts ...Option[model.ProjectFilters]) *ProjectsQuery {
	opts = append([]Option[model.ProjectFilters]{WithFallback[model.ProjectFilters]("Failed to load projects")}, opts...)
	return New(ctx, "projects", svc.List, initial, opts...)
}

// NewEquipment は設備一覧のクエリを生成する。
func NewEquipment(ctx context.Context, svc *service.EquipmentService, initial model.EquipmentFilters, opts ...Option[model.EquipmentFilters]) *EquipmentQuery {
	opts = append([]Option[model.EquipmentFilters]{WithFallback[model.EquipmentFilters]("Failed to load equipment")}, opts...)
	return New(ctx, "equipment", svc.List, initial, opts...)
}

// NewDossiers は書類一覧のクエリを生成する。
func NewDossiers(ctx context.Context, svc *service.DossierService, initial model.DossierFilters, opts ...Option[model.DossierFilters]) *DossiersQuery {
	opts = append([]Option[model.DossierFilters]{WithFallback[model.DossierFilters]("Failed to load dossiers")}, opts...)
	return New(ctx, "dossiers", svc.List, initial, opts...)
}

// NewCourriers は郵便物一覧のクエリを生成する。
func NewCourriers(ctx context.Context, svc *service.CourrierService, initial model.CourrierFilters, opts ...Option[model.CourrierFilters]) *CourriersQuery {
	opts = append([]Option[model.CourrierFilters]{WithFallback[model.CourrierFilters]("Failed to load courriers")}, opts...)
	return New(ctx, "courriers", svc.List, initial, opts...)
}

// NewHistory は操作履歴のクエリを生成する。
func NewHistory(ctx context.Context, svc *service.HistoryService, initial model.HistoryFilters, opts ...Option[model.HistoryFilters]) *HistoryQuery {
	opts = append([]Option[model.HistoryFilters]{WithFallback[model.HistoryFilters]("Failed to load history")}, opts...)
	return New(ctx, "history", svc.List, initial, opts...)
}

// NewRegions は地域一覧のクエリを生成する。地域は静的データなのでフィルタを持たない。
func NewRegions(ctx context.Context, svc *service.RegionService, opts ...Option[struct{}]) *RegionsQuery {
	fetch := func(ctx context.Context, _ struct{}) ([]model.Region, error) {
		return svc.List(ctx)
	}
	opts = append([]Option[struct{}]{WithFallback[struct{}]("Failed to load regions")}, opts...)
	return New(ctx, "regions", fetch, struct{}{}, opts...)
}
