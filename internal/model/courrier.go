package model

// CourrierStatus は郵便物の処理状態。
type CourrierStatus string

const (
	CourrierStatusSent      CourrierStatus = "Envoyé"
	CourrierStatusReceived  CourrierStatus = "Reçu"
	CourrierStatusRead      CourrierStatus = "Lu"
	CourrierStatusProcessed CourrierStatus = "Traité"
)

// DossierInfo は郵便物に埋め込まれる書類の要約。
type DossierInfo struct {
	ID         int    `json:"id"`
	Type       string `json:"type"`
	Equipement string `json:"equipement"`
}

// Courrier は書類に添付された差出人・宛先間の郵便物を表す。
type Courrier struct {
	ID              int            `json:"id"`
	Dossier         int            `json:"dossier"`
	DossierInfo     DossierInfo    `json:"dossier_info"`
	Expediteur      int            `json:"expediteur"`
	ExpediteurNom   string         `json:"expediteur_nom"`
	Destinataire    int            `json:"destinataire"`
	DestinataireNom string         `json:"destinataire_nom"`
	Objet           string         `json:"objet,omitempty"`
	Reference       string         `json:"reference,omitempty"`
	Commentaire     string         `json:"commentaire,omitempty"`
	DateEnvoi       *string        `json:"date_envoi,omitempty"`
	DateReception   *string        `json:"date_reception,omitempty"`
	Statut          CourrierStatus `json:"statut"`
	Documents       []Document     `json:"documents"`
	NombreDocuments int            `json:"nombre_documents"`
}

// CourrierFilters は郵便物一覧の絞り込み条件。
type CourrierFilters struct {
	Statut       CourrierStatus `json:"statut,omitempty"`
	Expediteur   int            `json:"expediteur,omitempty"`
	Destinataire int            `json:"destinataire,omitempty"`
	Dossier      int            `json:"dossier,omitempty"`
}

// CreateCourrierPayload は郵便物作成リクエストのボディ。
type CreateCourrierPayload struct {
	Dossier      int            `json:"dossier"`
	Expediteur   int            `json:"expediteur"`
	Destinataire int            `json:"destinataire"`
	Objet        string         `json:"objet,omitempty"`
	Reference    string         `json:"reference,omitempty"`
	Commentaire  string         `json:"commentaire,omitempty"`
	Statut       CourrierStatus `json:"statut,omitempty"`
}

// Validate は作成フォームの必須項目を検証する。
func (p CreateCourrierPayload) Validate() error {
	fields := map[string]string{}
	if p.Dossier == 0 {
		fields["dossier"] = "Dossier requis"
	}
	if p.Expediteur == 0 {
		fields["expediteur"] = "Expéditeur requis"
	}
	if p.Destinataire == 0 {
		fields["destinataire"] = "Destinataire requis"
	}
	return requiredFields(fields)
}
