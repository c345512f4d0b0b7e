package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/hitoshi/suivi/internal/httpclient"
	"github.com/hitoshi/suivi/internal/model"
	"github.com/hitoshi/suivi/internal/mutation"
	"github.com/hitoshi/suivi/internal/notify"
	"github.com/hitoshi/suivi/internal/query"
)

// ErrReported はエラーが通知としてすでに表示されたことを示す。呼び出し元は再表示しない。
var ErrReported = errors.New("error already reported")

// report はミューテーションの結果に応じて通知を出力する。
// 検証エラーは通知されないため、そのまま返す。
func (e *env) report(p *printer, err error) error {
	msg, ok := e.rt.Notifications.Current()
	if err != nil {
		if ok && msg.Level == notify.LevelError {
			fmt.Fprintf(e.io.Stderr, "[%s] %s\n", msg.Level, p.clean(msg.Text))
			if detail := httpclient.Message(err, ""); detail != "" && detail != msg.Text {
				fmt.Fprintf(e.io.Stderr, "  %s\n", p.clean(detail))
			}
			return fmt.Errorf("%w: %w", ErrReported, err)
		}
		return err
	}
	if ok {
		p.notification(msg)
	}
	return nil
}

func runCreate(e *env) error {
	if len(e.args) == 0 {
		return errors.New("create: missing kind (project, equipment, dossier or courrier)")
	}
	kind, rest := e.args[0], e.args[1:]
	switch kind {
	case "project":
		return createProject(e, rest)
	case "equipment":
		return createEquipment(e, rest)
	case "dossier":
		return createDossier(e, rest)
	case "courrier":
		return createCourrier(e, rest)
	default:
		return fmt.Errorf("create: unknown kind %q", kind)
	}
}

func createProject(e *env, args []string) error {
	fs, asJSON := e.flags("create project")
	nom := fs.String("nom", "", "nom du projet")
	region := fs.Int("region", 0, "identifiant de la région")
	etat := fs.String("etat", string(model.ProjectStatePreparation), "état du projet")
	description := fs.String("description", "", "description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := e.requireSession(); err != nil {
		return err
	}

	payload := model.CreateProjectPayload{
		Nom:         *nom,
		Region:      *region,
		Etat:        model.ProjectState(*etat),
		Description: *description,
	}
	m := mutation.CreateProject(e.rt.Services.Projects, e.rt.MutationDeps())
	created, err := m.Mutate(e.ctx, payload)
	return e.printCreated(*asJSON, created, created.ID, err)
}

func createEquipment(e *env, args []string) error {
	fs, asJSON := e.flags("create equipment")
	projet := fs.Int("projet", 0, "identifiant du projet")
	nom := fs.String("nom", "", "nom de l'équipement")
	localisation := fs.String("localisation", "", "localisation")
	statut := fs.String("statut", string(model.EquipmentStatusPending), "statut de validation")
	etat := fs.String("etat", "", "état de fonctionnement")
	reference := fs.String("reference", "", "référence")
	numeroSerie := fs.String("numero-serie", "", "numéro de série")
	dateInstallation := fs.String("date-installation", "", "date d'installation (AAAA-MM-JJ)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := e.requireSession(); err != nil {
		return err
	}

	payload := model.CreateEquipmentPayload{
		Projet:           *projet,
		Nom:              *nom,
		Localisation:     *localisation,
		Statut:           model.EquipmentStatus(*statut),
		Etat:             model.EquipmentState(*etat),
		Reference:        *reference,
		NumeroSerie:      *numeroSerie,
		DateInstallation: *dateInstallation,
	}
	m := mutation.CreateEquipment(e.rt.Services.Equipment, e.rt.MutationDeps())
	created, err := m.Mutate(e.ctx, payload)
	return e.printCreated(*asJSON, created, created.ID, err)
}

func createDossier(e *env, args []string) error {
	fs, asJSON := e.flags("create dossier")
	equipement := fs.Int("equipement", 0, "identifiant de l'équipement")
	typ := fs.String("type", "", "type de dossier")
	statut := fs.String("statut", string(model.DossierStatusInProgress), "statut initial")
	commentaire := fs.String("commentaire", "", "commentaire")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := e.requireSession(); err != nil {
		return err
	}

	payload := model.CreateDossierPayload{
		Equipement:  *equipement,
		TypeDossier: model.DossierType(*typ),
		Statut:      model.DossierStatus(*statut),
		Commentaire: *commentaire,
	}
	m := mutation.CreateDossier(e.rt.Services.Dossiers, e.rt.MutationDeps())
	created, err := m.Mutate(e.ctx, payload)
	return e.printCreated(*asJSON, created, created.ID, err)
}

func createCourrier(e *env, args []string) error {
	fs, asJSON := e.flags("create courrier")
	dossier := fs.Int("dossier", 0, "identifiant du dossier")
	expediteur := fs.Int("expediteur", 0, "identifiant de l'expéditeur")
	destinataire := fs.Int("destinataire", 0, "identifiant du destinataire")
	objet := fs.String("objet", "", "objet")
	reference := fs.String("reference", "", "référence")
	commentaire := fs.String("commentaire", "", "commentaire")
	statut := fs.String("statut", "", "statut du courrier")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := e.requireSession(); err != nil {
		return err
	}

	payload := model.CreateCourrierPayload{
		Dossier:      *dossier,
		Expediteur:   *expediteur,
		Destinataire: *destinataire,
		Objet:        *objet,
		Reference:    *reference,
		Commentaire:  *commentaire,
		Statut:       model.CourrierStatus(*statut),
	}
	m := mutation.CreateCourrier(e.rt.Services.Courriers, e.rt.MutationDeps())
	created, err := m.Mutate(e.ctx, payload)
	return e.printCreated(*asJSON, created, created.ID, err)
}

func (e *env) printCreated(asJSON bool, created any, id int, err error) error {
	p := e.printer(asJSON)
	if err := e.report(p, err); err != nil {
		return err
	}
	if p.json {
		return p.writeJSON(created)
	}
	fmt.Fprintf(e.io.Stdout, "ID : %d\n", id)
	return nil
}

func runUpdate(e *env) error {
	if len(e.args) < 2 || e.args[0] != "equipment" {
		return errors.New("usage: update equipment ID [flags]")
	}
	ids, err := parseIDs(e.args[1:2])
	if err != nil {
		return err
	}

	fs, asJSON := e.flags("update equipment")
	fs.Int("projet", 0, "identifiant du projet")
	fs.String("nom", "", "nom")
	fs.String("localisation", "", "localisation")
	fs.String("statut", "", "statut de validation")
	fs.String("etat", "", "état de fonctionnement")
	fs.String("reference", "", "référence")
	fs.String("numero-serie", "", "numéro de série")
	fs.String("date-installation", "", "date d'installation (AAAA-MM-JJ)")
	if err := fs.Parse(e.args[2:]); err != nil {
		return err
	}
	if err := e.requireSession(); err != nil {
		return err
	}

	payload, err := equipmentPatch(fs)
	if err != nil {
		return err
	}
	m := mutation.UpdateEquipment(e.rt.Services.Equipment, e.rt.MutationDeps())
	updated, err := m.Mutate(e.ctx, mutation.EquipmentUpdate{ID: ids[0], Payload: payload})

	p := e.printer(*asJSON)
	if err := e.report(p, err); err != nil {
		return err
	}
	if p.json {
		return p.writeJSON(updated)
	}
	return p.equipment([]model.Equipment{updated})
}

// equipmentPatch は明示的に指定されたフラグだけを部分更新のボディに含める。
func equipmentPatch(fs *pflag.FlagSet) (model.UpdateEquipmentPayload, error) {
	var p model.UpdateEquipmentPayload
	str := func(name string) *string {
		if !fs.Changed(name) {
			return nil
		}
		v, _ := fs.GetString(name)
		return &v
	}
	if fs.Changed("projet") {
		v, err := fs.GetInt("projet")
		if err != nil {
			return p, err
		}
		p.Projet = &v
	}
	p.Nom = str("nom")
	p.Localisation = str("localisation")
	p.Reference = str("reference")
	p.NumeroSerie = str("numero-serie")
	p.DateInstallation = str("date-installation")
	if s := str("statut"); s != nil {
		v := model.EquipmentStatus(*s)
		p.Statut = &v
	}
	if s := str("etat"); s != nil {
		v := model.EquipmentState(*s)
		p.Etat = &v
	}
	return p, nil
}

type bulkLine struct {
	ID     int    `json:"id"`
	Statut string `json:"statut,omitempty"`
	Erreur string `json:"erreur,omitempty"`
}

// runDecision は複数の書類または設備を順に検証/却下する。失敗した項目があっても続行する。
func runDecision(e *env, validate bool) error {
	name := "reject"
	if validate {
		name = "validate"
	}
	if len(e.args) < 2 {
		return fmt.Errorf("usage: %s dossier|equipment ID... [--commentaire TEXT]", name)
	}
	kind := e.args[0]

	fs, asJSON := e.flags(name + " " + kind)
	commentaire := fs.String("commentaire", "", "commentaire (obligatoire pour un refus de dossier)")
	if err := fs.Parse(e.args[1:]); err != nil {
		return err
	}
	ids, err := parseIDs(fs.Args())
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("%s: at least one id is required", name)
	}
	if err := e.requireSession(); err != nil {
		return err
	}

	deps := e.rt.MutationDeps()
	var lines []bulkLine
	switch kind {
	case "dossier":
		m := mutation.RejectDossier(e.rt.Services.Dossiers, deps)
		if validate {
			m = mutation.ValidateDossier(e.rt.Services.Dossiers, deps)
		}
		items := make([]model.DossierDecision, len(ids))
		for i, id := range ids {
			items[i] = model.DossierDecision{ID: id, Payload: model.DossierDecisionPayload{Commentaire: *commentaire}}
		}
		results := mutation.RunBulk(e.ctx, m, items, nil)
		for _, r := range results {
			lines = append(lines, bulkLine{ID: r.Item.ID, Statut: r.Value.Statut, Erreur: errText(r.Err)})
		}
	case "equipment":
		m := mutation.RejectEquipment(e.rt.Services.Equipment, deps)
		if validate {
			m = mutation.ValidateEquipment(e.rt.Services.Equipment, deps)
		}
		results := mutation.RunBulk(e.ctx, m, ids, nil)
		for _, r := range results {
			lines = append(lines, bulkLine{ID: r.Item, Statut: r.Value.Statut, Erreur: errText(r.Err)})
		}
	default:
		return fmt.Errorf("%s: unknown kind %q", name, kind)
	}

	return e.printBulk(*asJSON, lines)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return ErrorMessage(err)
}

func (e *env) printBulk(asJSON bool, lines []bulkLine) error {
	p := e.printer(asJSON)
	failed := 0
	for _, l := range lines {
		if l.Erreur != "" {
			failed++
		}
	}

	if p.json {
		if err := p.writeJSON(lines); err != nil {
			return err
		}
	} else {
		rows := make([][]string, 0, len(lines))
		for _, l := range lines {
			result := l.Statut
			if l.Erreur != "" {
				result = "échec : " + l.Erreur
			}
			rows = append(rows, []string{itoa(l.ID), result})
		}
		if err := p.table([]string{"ID", "RÉSULTAT"}, rows); err != nil {
			return err
		}
		fmt.Fprintf(e.io.Stdout, "%d/%d traité(s) avec succès.\n", len(lines)-failed, len(lines))
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d items failed", ErrReported, failed, len(lines))
	}
	return nil
}

func runDelete(e *env) error {
	if len(e.args) < 2 || e.args[0] != "equipment" {
		return errors.New("usage: delete equipment ID")
	}
	fs, asJSON := e.flags("delete equipment")
	if err := fs.Parse(e.args[1:]); err != nil {
		return err
	}
	ids, err := parseIDs(fs.Args())
	if err != nil {
		return err
	}
	if len(ids) != 1 {
		return errors.New("delete: exactly one id is required")
	}
	if err := e.requireSession(); err != nil {
		return err
	}

	m := mutation.DeleteEquipment(e.rt.Services.Equipment, e.rt.MutationDeps())
	_, err = m.Mutate(e.ctx, ids[0])
	return e.report(e.printer(*asJSON), err)
}

// runUpload はファイルを郵便物に添付し、更新後の添付文書一覧を表示する。
func runUpload(e *env) error {
	fs, asJSON := e.flags("upload")
	courrier := fs.Int("courrier", 0, "identifiant du courrier")
	description := fs.String("description", "", "description du document")
	if err := fs.Parse(e.args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("upload: exactly one file is required")
	}
	if *courrier == 0 {
		return errors.New("--courrier is required")
	}
	if err := e.requireSession(); err != nil {
		return err
	}

	path := fs.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	docs := query.NewDocuments(e.ctx, e.rt.Services.Documents, *courrier, queryOptions[int](e.rt)...)
	defer docs.Close()
	if _, err := docs.Wait(e.ctx); err != nil {
		return err
	}

	payload := model.UploadDocumentPayload{
		Courrier:    *courrier,
		FileName:    info.Name(),
		File:        f,
		Size:        info.Size(),
		Description: *description,
	}
	m := mutation.UploadDocument(e.rt.Services.Documents, e.rt.MutationDeps())
	_, err = m.Mutate(e.ctx, payload, mutation.Options[model.Document]{
		OnSuccess: func(model.Document) { docs.Refetch() },
	})

	p := e.printer(*asJSON)
	if err := e.report(p, err); err != nil {
		return err
	}
	items, err := fetchOnce(e.ctx, docs)
	if err != nil {
		return err
	}
	return p.documents(items)
}
