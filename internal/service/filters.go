package service

import (
	"fmt"
	"strconv"

	"github.com/hitoshi/suivi/internal/httpclient"
	"github.com/hitoshi/suivi/internal/model"
)

// フィルタはキーの順序を固定してクエリに変換する。未設定のフィールドは送らない。

// ProjectQuery はプロジェクトのフィルタをクエリに変換する。
func ProjectQuery(f model.ProjectFilters) httpclient.Params {
	return httpclient.Params{}.
		AddString("region__code", f.RegionCode).
		AddInt("region_id", f.RegionID).
		AddString("etat", string(f.Etat))
}

// ParseProjectFilters はクエリからプロジェクトのフィルタを復元する。
func ParseProjectFilters(q httpclient.Params) (model.ProjectFilters, error) {
	var f model.ProjectFilters
	var err error
	f.RegionCode, _ = q.Get("region__code")
	if f.RegionID, err = intParam(q, "region_id"); err != nil {
		return f, err
	}
	etat, _ := q.Get("etat")
	f.Etat = model.ProjectState(etat)
	return f, nil
}

// EquipmentQuery は設備のフィルタをクエリに変換する。
func EquipmentQuery(f model.EquipmentFilters) httpclient.Params {
	return httpclient.Params{}.
		AddString("statut", string(f.Statut)).
		AddString("etat", string(f.Etat)).
		AddInt("projet", f.Projet)
}

// ParseEquipmentFilters はクエリから設備のフィルタを復元する。
func ParseEquipmentFilters(q httpclient.Params) (model.EquipmentFilters, error) {
	var f model.EquipmentFilters
	var err error
	statut, _ := q.Get("statut")
	etat, _ := q.Get("etat")
	f.Statut = model.EquipmentStatus(statut)
	f.Etat = model.EquipmentState(etat)
	f.Projet, err = intParam(q, "projet")
	return f, err
}

// DossierQuery は書類のフィルタをクエリに変換する。
func DossierQuery(f model.DossierFilters) httpclient.Params {
	return httpclient.Params{}.
		AddString("statut", string(f.Statut)).
		AddString("type_dossier", string(f.TypeDossier)).
		AddInt("equipement", f.Equipement)
}

// ParseDossierFilters はクエリから書類のフィルタを復元する。
func ParseDossierFilters(q httpclient.Params) (model.DossierFilters, error) {
	var f model.DossierFilters
	var err error
	statut, _ := q.Get("statut")
	typ, _ := q.Get("type_dossier")
	f.Statut = model.DossierStatus(statut)
	f.TypeDossier = model.DossierType(typ)
	f.Equipement, err = intParam(q, "equipement")
	return f, err
}

// CourrierQuery は郵便物のフィルタをクエリに変換する。
func CourrierQuery(f model.CourrierFilters) httpclient.Params {
	return httpclient.Params{}.
		AddString("statut", string(f.Statut)).
		AddInt("expediteur", f.Expediteur).
		AddInt("destinataire", f.Destinataire).
		AddInt("dossier", f.Dossier)
}

// ParseCourrierFilters はクエリから郵便物のフィルタを復元する。
func ParseCourrierFilters(q httpclient.Params) (model.CourrierFilters, error) {
	var f model.CourrierFilters
	var err error
	statut, _ := q.Get("statut")
	f.Statut = model.CourrierStatus(statut)
	if f.Expediteur, err = intParam(q, "expediteur"); err != nil {
		return f, err
	}
	if f.Destinataire, err = intParam(q, "destinataire"); err != nil {
		return f, err
	}
	f.Dossier, err = intParam(q, "dossier")
	return f, err
}

// DocumentQuery は文書のフィルタをクエリに変換する。
func DocumentQuery(f model.DocumentFilters) httpclient.Params {
	return httpclient.Params{}.
		AddInt("courrier", f.Courrier).
		AddString("type_document", f.TypeDocument)
}

// ParseDocumentFilters はクエリから文書のフィルタを復元する。
func ParseDocumentFilters(q httpclient.Params) (model.DocumentFilters, error) {
	var f model.DocumentFilters
	var err error
	if f.Courrier, err = intParam(q, "courrier"); err != nil {
		return f, err
	}
	f.TypeDocument, _ = q.Get("type_document")
	return f, nil
}

// HistoryQuery は履歴のフィルタをクエリに変換する。
func HistoryQuery(f model.HistoryFilters) httpclient.Params {
	return httpclient.Params{}.
		AddString("objet_type", f.ObjetType).
		AddInt("objet_id", f.ObjetID).
		AddInt("limit", f.Limit)
}

// ParseHistoryFilters はクエリから履歴のフィルタを復元する。
func ParseHistoryFilters(q httpclient.Params) (model.HistoryFilters, error) {
	var f model.HistoryFilters
	var err error
	f.ObjetType, _ = q.Get("objet_type")
	if f.ObjetID, err = intParam(q, "objet_id"); err != nil {
		return f, err
	}
	f.Limit, err = intParam(q, "limit")
	return f, err
}

func intParam(q httpclient.Params, key string) (int, error) {
	raw, ok := q.Get(key)
	if !ok || raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
