package model

// DossierType は書類の種別。
type DossierType string

const (
	DossierTypePreliminary  DossierType = "Préliminaire"
	DossierTypeFactoryTest  DossierType = "Essai usine"
	DossierTypeSiteTest     DossierType = "Essai site"
	DossierTypeTestProtocol DossierType = "Procédure essai"
	DossierTypeHSE          DossierType = "HSE"
	DossierTypeFinal        DossierType = "Final"
)

// DossierStatus は書類の検証ステータス。validate/rejectアクションでのみ遷移する。
type DossierStatus string

const (
	DossierStatusInProgress   DossierStatus = "En cours"
	DossierStatusValidated    DossierStatus = "Validé"
	DossierStatusConclusive   DossierStatus = "Concluant"
	DossierStatusInconclusive DossierStatus = "Non concluant"
	DossierStatusRefused      DossierStatus = "Refusé"
)

// Dossier は設備1件に紐づく検証書類を表す。
type Dossier struct {
	ID                int           `json:"id"`
	Equipement        int           `json:"equipement"`
	EquipementNom     string        `json:"equipement_nom"`
	EquipementProjet  string        `json:"equipement_projet"`
	TypeDossier       DossierType   `json:"type_dossier"`
	Statut            DossierStatus `json:"statut"`
	Commentaire       string        `json:"commentaire,omitempty"`
	CreePar           int           `json:"cree_par"`
	CreeParUsername   string        `json:"cree_par_username"`
	ValidePar         *int          `json:"valide_par,omitempty"`
	ValideParUsername *string       `json:"valide_par_username,omitempty"`
	DateCreation      string        `json:"date_creation"`
	DateValidation    *string       `json:"date_validation,omitempty"`
	Courriers         []int         `json:"courriers,omitempty"`
	NombreCourriers   int           `json:"nombre_courriers"`
}

// DossierFilters は書類一覧の絞り込み条件。
type DossierFilters struct {
	Statut      DossierStatus `json:"statut,omitempty"`
	TypeDossier DossierType   `json:"type_dossier,omitempty"`
	Equipement  int           `json:"equipement,omitempty"`
}

// CreateDossierPayload は書類作成リクエストのボディ。
type CreateDossierPayload struct {
	Equipement  int           `json:"equipement"`
	TypeDossier DossierType   `json:"type_dossier"`
	Statut      DossierStatus `json:"statut"`
	Commentaire string        `json:"commentaire,omitempty"`
}

// Validate は作成フォームの必須項目を検証する。
func (p CreateDossierPayload) Validate() error {
	fields := map[string]string{}
	if p.Equipement == 0 {
		fields["equipement"] = "Équipement requis"
	}
	if p.TypeDossier == "" {
		fields["type_dossier"] = "Type requis"
	}
	if p.Statut == "" {
		fields["statut"] = "Statut requis"
	}
	return requiredFields(fields)
}

// DossierDecisionPayload は検証/却下アクションに添えるコメント。
type DossierDecisionPayload struct {
	Commentaire string `json:"commentaire,omitempty"`
}

// DossierDecision は1件の書類に対する検証/却下の指示。
type DossierDecision struct {
	ID      int
	Payload DossierDecisionPayload
}

// ValidateRejection は却下時にコメントが必須であることを検証する。
func (d DossierDecision) ValidateRejection() error {
	if isBlank(d.Payload.Commentaire) {
		return NewCommentRequiredError()
	}
	return nil
}
