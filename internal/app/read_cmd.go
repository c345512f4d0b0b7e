package app

import (
	"errors"

	"github.com/hitoshi/suivi/internal/model"
	"github.com/hitoshi/suivi/internal/query"
)

func runProjects(e *env) error {
	fs, asJSON := e.flags("projects")
	regionCode := fs.String("region-code", "", "code de la région")
	regionID := fs.Int("region", 0, "identifiant de la région")
	etat := fs.String("etat", "", "état du projet")
	id := fs.Int("id", 0, "afficher le détail d'un projet")
	if err := fs.Parse(e.args); err != nil {
		return err
	}
	if err := e.requireSession(); err != nil {
		return err
	}
	p := e.printer(*asJSON)

	if *id != 0 {
		d, err := fetchOnce(e.ctx, query.NewProjectDetail(e.ctx, e.rt.Services, *id, queryOptions[int](e.rt)...))
		if err != nil {
			return err
		}
		return p.projectDetail(d)
	}

	filters := model.ProjectFilters{RegionCode: *regionCode, RegionID: *regionID, Etat: model.ProjectState(*etat)}
	items, err := fetchOnce(e.ctx, query.NewProjects(e.ctx, e.rt.Services.Projects, filters, queryOptions[model.ProjectFilters](e.rt)...))
	if err != nil {
		return err
	}
	return p.projects(items)
}

func runEquipment(e *env) error {
	fs, asJSON := e.flags("equipment")
	statut := fs.String("statut", "", "statut de validation")
	etat := fs.String("etat", "", "état de fonctionnement")
	projet := fs.Int("projet", 0, "identifiant du projet")
	id := fs.Int("id", 0, "afficher le détail d'un équipement")
	if err := fs.Parse(e.args); err != nil {
		return err
	}
	if err := e.requireSession(); err != nil {
		return err
	}
	p := e.printer(*asJSON)

	if *id != 0 {
		d, err := fetchOnce(e.ctx, query.NewEquipmentDetail(e.ctx, e.rt.Services, *id, queryOptions[int](e.rt)...))
		if err != nil {
			return err
		}
		return p.equipmentDetail(d)
	}

	filters := model.EquipmentFilters{
		Statut: model.EquipmentStatus(*statut),
		Etat:   model.EquipmentState(*etat),
		Projet: *projet,
	}
	items, err := fetchOnce(e.ctx, query.NewEquipment(e.ctx, e.rt.Services.Equipment, filters, queryOptions[model.EquipmentFilters](e.rt)...))
	if err != nil {
		return err
	}
	return p.equipment(items)
}

func runDossiers(e *env) error {
	fs, asJSON := e.flags("dossiers")
	statut := fs.String("statut", "", "statut du dossier")
	typ := fs.String("type", "", "type de dossier")
	equipement := fs.Int("equipement", 0, "identifiant de l'équipement")
	id := fs.Int("id", 0, "afficher le détail d'un dossier")
	if err := fs.Parse(e.args); err != nil {
		return err
	}
	if err := e.requireSession(); err != nil {
		return err
	}
	p := e.printer(*asJSON)

	if *id != 0 {
		d, err := fetchOnce(e.ctx, query.NewDossierDetail(e.ctx, e.rt.Services, *id, queryOptions[int](e.rt)...))
		if err != nil {
			return err
		}
		return p.dossierDetail(d)
	}

	filters := model.DossierFilters{
		Statut:      model.DossierStatus(*statut),
		TypeDossier: model.DossierType(*typ),
		Equipement:  *equipement,
	}
	items, err := fetchOnce(e.ctx, query.NewDossiers(e.ctx, e.rt.Services.Dossiers, filters, queryOptions[model.DossierFilters](e.rt)...))
	if err != nil {
		return err
	}
	return p.dossiers(items)
}

func runCourriers(e *env) error {
	fs, asJSON := e.flags("courriers")
	statut := fs.String("statut", "", "statut du courrier")
	expediteur := fs.Int("expediteur", 0, "identifiant de l'expéditeur")
	destinataire := fs.Int("destinataire", 0, "identifiant du destinataire")
	dossier := fs.Int("dossier", 0, "identifiant du dossier")
	id := fs.Int("id", 0, "afficher le détail d'un courrier")
	if err := fs.Parse(e.args); err != nil {
		return err
	}
	if err := e.requireSession(); err != nil {
		return err
	}
	p := e.printer(*asJSON)

	if *id != 0 {
		c, err := e.rt.Services.Courriers.Detail(e.ctx, *id)
		if err != nil {
			return err
		}
		return p.courrierDetail(c)
	}

	filters := model.CourrierFilters{
		Statut:       model.CourrierStatus(*statut),
		Expediteur:   *expediteur,
		Destinataire: *destinataire,
		Dossier:      *dossier,
	}
	items, err := fetchOnce(e.ctx, query.NewCourriers(e.ctx, e.rt.Services.Courriers, filters, queryOptions[model.CourrierFilters](e.rt)...))
	if err != nil {
		return err
	}
	return p.courriers(items)
}

func runDocuments(e *env) error {
	fs, asJSON := e.flags("documents")
	courrier := fs.Int("courrier", 0, "identifiant du courrier")
	if err := fs.Parse(e.args); err != nil {
		return err
	}
	if *courrier == 0 {
		return errors.New("--courrier is required")
	}
	if err := e.requireSession(); err != nil {
		return err
	}

	items, err := fetchOnce(e.ctx, query.NewDocuments(e.ctx, e.rt.Services.Documents, *courrier, queryOptions[int](e.rt)...))
	if err != nil {
		return err
	}
	return e.printer(*asJSON).documents(items)
}

func runHistory(e *env) error {
	fs, asJSON := e.flags("history")
	objetType := fs.String("objet-type", "", "type d'objet")
	objetID := fs.Int("objet-id", 0, "identifiant de l'objet")
	limit := fs.Int("limit", 0, "nombre maximal d'entrées")
	if err := fs.Parse(e.args); err != nil {
		return err
	}
	if err := e.requireSession(); err != nil {
		return err
	}

	filters := model.HistoryFilters{ObjetType: *objetType, ObjetID: *objetID, Limit: *limit}
	items, err := fetchOnce(e.ctx, query.NewHistory(e.ctx, e.rt.Services.History, filters, queryOptions[model.HistoryFilters](e.rt)...))
	if err != nil {
		return err
	}
	return e.printer(*asJSON).history(items)
}

func runRegions(e *env) error {
	fs, asJSON := e.flags("regions")
	if err := fs.Parse(e.args); err != nil {
		return err
	}
	if err := e.requireSession(); err != nil {
		return err
	}

	items, err := fetchOnce(e.ctx, query.NewRegions(e.ctx, e.rt.Services.Regions, queryOptions[struct{}](e.rt)...))
	if err != nil {
		return err
	}
	return e.printer(*asJSON).regions(items)
}

func runStats(e *env) error {
	fs, asJSON := e.flags("stats")
	activity := fs.Int("activity", e.rt.Config.ActivityLimit, "nombre d'actions récentes")
	if err := fs.Parse(e.args); err != nil {
		return err
	}
	if err := e.requireSession(); err != nil {
		return err
	}

	d, err := fetchOnce(e.ctx, query.NewDashboard(e.ctx, e.rt.Services.Stats, *activity, queryOptions[int](e.rt)...))
	if err != nil {
		return err
	}
	return e.printer(*asJSON).dashboard(d)
}
