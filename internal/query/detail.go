package query

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hitoshi/suivi/internal/model"
	"github.com/hitoshi/suivi/internal/service"
)

// EquipmentDetail は設備詳細画面に必要なデータ一式。
type EquipmentDetail struct {
	Equipment      model.Equipment
	Specifications []model.Specification
	Dossiers       []model.Dossier
	History        []model.HistoryEntry
}

// DossierDetail は書類詳細画面に必要なデータ一式。
type DossierDetail struct {
	Dossier   model.Dossier
	Courriers []model.Courrier
	// Documents は全郵便物の添付文書を平坦化したもの。
	Documents []model.Document
}

// ProjectDetail はプロジェクト詳細画面に必要なデータ一式。
type ProjectDetail struct {
	Project   model.Project
	Equipment []model.Equipment
}

// Dashboard はダッシュボードの集計と直近の操作。
type Dashboard struct {
	Stats          model.DashboardStats
	RecentActivity []model.HistoryEntry
}

// DefaultActivityLimit はダッシュボードに表示する直近操作の既定件数。
const DefaultActivityLimit = 15

// 詳細クエリの型。フィルタは対象のID。
type (
	EquipmentDetailQuery = Query[int, EquipmentDetail]
	DossierDetailQuery   = Query[int, DossierDetail]
	ProjectDetailQuery   = Query[int, ProjectDetail]
	DashboardQuery       = Query[int, Dashboard]
)

func idSet(id int) bool { return id != 0 }

// NewEquipmentDetail は設備詳細のクエリを生成する。4つの取得を並行に行い、1つでも失敗すれば全体を失敗とする。
func NewEquipmentDetail(ctx context.Context, svcs *service.Services, id int, opts ...Option[int]) *EquipmentDetailQuery {
	fetch := func(ctx context.Context, id int) (EquipmentDetail, error) {
		var d EquipmentDetail
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			d.Equipment, err = svcs.Equipment.Detail(gctx, id)
			return err
		})
		g.Go(func() (err error) {
			d.Specifications, err = svcs.Equipment.Specifications(gctx, id)
			return err
		})
		g.Go(func() (err error) {
			d.Dossiers, err = svcs.Dossiers.List(gctx, model.DossierFilters{Equipement: id})
			return err
		})
		g.Go(func() (err error) {
			d.History, err = svcs.Equipment.History(gctx, id)
			return err
		})
		if err := g.Wait(); err != nil {
			return EquipmentDetail{}, err
		}
		return d, nil
	}
	opts = append([]Option[int]{WithFallback[int]("Failed to load equipment"), WithEnabled(idSet)}, opts...)
	return New(ctx, "equipment_detail", fetch, id, opts...)
}

// NewDossierDetail は書類詳細のクエリを生成する。
func NewDossierDetail(ctx context.Context, svcs *service.Services, id int, opts ...Option[int]) *DossierDetailQuery {
	fetch := func(ctx context.Context, id int) (DossierDetail, error) {
		var d DossierDetail
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			d.Dossier, err = svcs.Dossiers.Detail(gctx, id)
			return err
		})
		g.Go(func() (err error) {
			d.Courriers, err = svcs.Courriers.List(gctx, model.CourrierFilters{Dossier: id})
			return err
		})
		if err := g.Wait(); err != nil {
			return DossierDetail{}, err
		}
		d.Documents = []model.Document{}
		for _, c := range d.Courriers {
			d.Documents = append(d.Documents, c.Documents...)
		}
		return d, nil
	}
	opts = append([]Option[int]{WithFallback[int]("Failed to load dossier"), WithEnabled(idSet)}, opts...)
	return New(ctx, "dossier_detail", fetch, id, opts...)
}

// NewProjectDetail はプロジェクト詳細のクエリを生成する。
func NewProjectDetail(ctx context.Context, svcs *service.Services, id int, opts ...Option[int]) *ProjectDetailQuery {
	fetch := func(ctx context.Context, id int) (ProjectDetail, error) {
		var d ProjectDetail
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			d.Project, err = svcs.Projects.Detail(gctx, id)
			return err
		})
		g.Go(func() (err error) {
			d.Equipment, err = svcs.Projects.Equipment(gctx, id)
			return err
		})
		if err := g.Wait(); err != nil {
			return ProjectDetail{}, err
		}
		return d, nil
	}
	opts = append([]Option[int]{WithFallback[int]("Failed to load project"), WithEnabled(idSet)}, opts...)
	return New(ctx, "project_detail", fetch, id, opts...)
}

// NewDashboard はダッシュボードのクエリを生成する。フィルタは直近操作の件数。
func NewDashboard(ctx context.Context, svc *service.StatsService, activityLimit int, opts ...Option[int]) *DashboardQuery {
	if activityLimit <= 0 {
		activityLimit = DefaultActivityLimit
	}
	fetch := func(ctx context.Context, limit int) (Dashboard, error) {
		var d Dashboard
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			d.Stats, err = svc.Dashboard(gctx)
			return err
		})
		g.Go(func() (err error) {
			d.RecentActivity, err = svc.RecentActivity(gctx, limit)
			return err
		})
		if err := g.Wait(); err != nil {
			return Dashboard{}, err
		}
		return d, nil
	}
	opts = append([]Option[int]{WithFallback[int]("Failed to load dashboard data")}, opts...)
	return New(ctx, "dashboard", fetch, activityLimit, opts...)
}
