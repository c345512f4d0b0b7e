package app

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/hitoshi/suivi/internal/model"
	"github.com/hitoshi/suivi/internal/notify"
	"github.com/hitoshi/suivi/internal/query"
	"github.com/hitoshi/suivi/internal/security"
)

// printer はコマンドの結果を表またはJSONで出力する。
// サーバー由来の自由記述は端末に出す前にサニタイズする。
type printer struct {
	w         io.Writer
	json      bool
	sanitizer *security.TextSanitizer
}

func newPrinter(w io.Writer, asJSON bool, sanitizer *security.TextSanitizer) *printer {
	return &printer{w: w, json: asJSON, sanitizer: sanitizer}
}

func (p *printer) clean(s string) string {
	if p.sanitizer == nil {
		return s
	}
	return p.sanitizer.Sanitize(s)
}

func (p *printer) writeJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) table(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = p.clean(c)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// fields はラベル付きの値を1行ずつ出力する。
func (p *printer) fields(pairs ...string) error {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(tw, "%s :\t%s\n", pairs[i], p.clean(pairs[i+1]))
	}
	return tw.Flush()
}

func (p *printer) section(title string) {
	fmt.Fprintf(p.w, "\n== %s ==\n", title)
}

// notification は表示中の通知を1行で出力する。
func (p *printer) notification(msg notify.Message) {
	if p.json {
		return
	}
	fmt.Fprintf(p.w, "[%s] %s\n", msg.Level, p.clean(msg.Text))
}

func itoa(n int) string { return strconv.Itoa(n) }

func (p *printer) projects(items []model.Project) error {
	if p.json {
		return p.writeJSON(items)
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{itoa(it.ID), it.Nom, it.RegionNom, string(it.Etat), itoa(it.NombreEquipements)})
	}
	return p.table([]string{"ID", "NOM", "RÉGION", "ÉTAT", "ÉQUIPEMENTS"}, rows)
}

func (p *printer) equipment(items []model.Equipment) error {
	if p.json {
		return p.writeJSON(items)
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{itoa(it.ID), it.Nom, it.ProjetNom, string(it.Statut), string(it.Etat), it.Localisation})
	}
	return p.table([]string{"ID", "NOM", "PROJET", "STATUT", "ÉTAT", "LOCALISATION"}, rows)
}

func (p *printer) dossiers(items []model.Dossier) error {
	if p.json {
		return p.writeJSON(items)
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{itoa(it.ID), string(it.TypeDossier), it.EquipementNom, string(it.Statut), it.DateCreation})
	}
	return p.table([]string{"ID", "TYPE", "ÉQUIPEMENT", "STATUT", "CRÉÉ LE"}, rows)
}

func (p *printer) courriers(items []model.Courrier) error {
	if p.json {
		return p.writeJSON(items)
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{itoa(it.ID), it.Reference, it.Objet, it.ExpediteurNom, it.DestinataireNom, string(it.Statut)})
	}
	return p.table([]string{"ID", "RÉFÉRENCE", "OBJET", "EXPÉDITEUR", "DESTINATAIRE", "STATUT"}, rows)
}

func (p *printer) documents(items []model.Document) error {
	if p.json {
		return p.writeJSON(items)
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{itoa(it.ID), it.NomFichier, it.TypeDocument, strconv.FormatInt(it.Taille, 10), it.AjouteParUsername, it.DateAjout})
	}
	return p.table([]string{"ID", "FICHIER", "TYPE", "TAILLE", "AJOUTÉ PAR", "DATE"}, rows)
}

func (p *printer) history(items []model.HistoryEntry) error {
	if p.json {
		return p.writeJSON(items)
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{it.DateAction, it.UserUsername, it.Action, it.ObjetType, itoa(it.ObjetID)})
	}
	return p.table([]string{"DATE", "UTILISATEUR", "ACTION", "OBJET", "ID"}, rows)
}

func (p *printer) regions(items []model.Region) error {
	if p.json {
		return p.writeJSON(items)
	}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{itoa(it.ID), it.Code, it.Nom})
	}
	return p.table([]string{"ID", "CODE", "NOM"}, rows)
}

func (p *printer) statMap(title string, m model.StatMap) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, itoa(m[k])})
	}
	return p.table([]string{title, "NOMBRE"}, rows)
}

func (p *printer) dashboard(d query.Dashboard) error {
	if p.json {
		return p.writeJSON(d)
	}
	s := d.Stats
	if err := p.fields(
		"Projets", itoa(s.Projets.Total),
		"Équipements", itoa(s.Equipements.Total),
		"Dossiers", itoa(s.Dossiers.Total),
		"Courriers", itoa(s.Courriers.Total),
	); err != nil {
		return err
	}
	p.section("Équipements par statut")
	if err := p.statMap("STATUT", s.Equipements.ParStatut); err != nil {
		return err
	}
	p.section("Dossiers par statut")
	if err := p.statMap("STATUT", s.Dossiers.ParStatut); err != nil {
		return err
	}
	p.section("Activité récente")
	return p.history(d.RecentActivity)
}

func (p *printer) equipmentDetail(d query.EquipmentDetail) error {
	if p.json {
		return p.writeJSON(d)
	}
	e := d.Equipment
	if err := p.fields(
		"ID", itoa(e.ID),
		"Nom", e.Nom,
		"Projet", e.ProjetNom,
		"Statut", string(e.Statut),
		"État", string(e.Etat),
		"Localisation", e.Localisation,
		"Référence", e.Reference,
		"Numéro de série", e.NumeroSerie,
	); err != nil {
		return err
	}
	p.section("Caractéristiques")
	rows := make([][]string, 0, len(d.Specifications))
	for _, s := range d.Specifications {
		rows = append(rows, []string{s.CategorieNom, strings.TrimSpace(s.Valeur + " " + s.CategorieUnite)})
	}
	if err := p.table([]string{"CATÉGORIE", "VALEUR"}, rows); err != nil {
		return err
	}
	p.section("Dossiers")
	if err := p.dossiers(d.Dossiers); err != nil {
		return err
	}
	p.section("Historique")
	return p.history(d.History)
}

func (p *printer) dossierDetail(d query.DossierDetail) error {
	if p.json {
		return p.writeJSON(d)
	}
	ds := d.Dossier
	if err := p.fields(
		"ID", itoa(ds.ID),
		"Type", string(ds.TypeDossier),
		"Équipement", ds.EquipementNom,
		"Statut", string(ds.Statut),
		"Commentaire", ds.Commentaire,
	); err != nil {
		return err
	}
	p.section("Courriers")
	if err := p.courriers(d.Courriers); err != nil {
		return err
	}
	p.section("Documents")
	return p.documents(d.Documents)
}

func (p *printer) projectDetail(d query.ProjectDetail) error {
	if p.json {
		return p.writeJSON(d)
	}
	pr := d.Project
	if err := p.fields(
		"ID", itoa(pr.ID),
		"Nom", pr.Nom,
		"Région", pr.RegionNom,
		"État", string(pr.Etat),
		"Description", pr.Description,
	); err != nil {
		return err
	}
	p.section("Équipements")
	return p.equipment(d.Equipment)
}

func (p *printer) courrierDetail(c model.Courrier) error {
	if p.json {
		return p.writeJSON(c)
	}
	if err := p.fields(
		"ID", itoa(c.ID),
		"Référence", c.Reference,
		"Objet", c.Objet,
		"Expéditeur", c.ExpediteurNom,
		"Destinataire", c.DestinataireNom,
		"Statut", string(c.Statut),
		"Commentaire", c.Commentaire,
	); err != nil {
		return err
	}
	p.section("Documents")
	return p.documents(c.Documents)
}
