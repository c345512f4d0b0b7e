package mutation

import (
	"context"

	"github.com/hitoshi/suivi/internal/model"
	"github.com/hitoshi/suivi/internal/service"
)

// EquipmentUpdate は設備1件の部分更新。
type EquipmentUpdate struct {
	ID      int
	Payload model.UpdateEquipmentPayload
}

// CreateProject はプロジェクトを作成する。
func CreateProject(svc *service.ProjectService, deps Deps) *Mutation[model.CreateProjectPayload, model.Project] {
	return New("create_project", svc.Create, Messages{
		Success: "Projet créé avec succès.",
		Failure: "Impossible de créer le projet.",
	}, deps)
}

// CreateEquipment は設備を作成する。
func CreateEquipment(svc *service.EquipmentService, deps Deps) *Mutation[model.CreateEquipmentPayload, model.Equipment] {
	return New("create_equipment", svc.Create, Messages{
		Success: "Équipement créé avec succès.",
		Failure: "Impossible de créer l'équipement.",
	}, deps)
}

// UpdateEquipment は設備を更新する。
func UpdateEquipment(svc *service.EquipmentService, deps Deps) *Mutation[EquipmentUpdate, model.Equipment] {
	request := func(ctx context.Context, u EquipmentUpdate) (model.Equipment, error) {
		return svc.Update(ctx, u.ID, u.Payload)
	}
	return New("update_equipment", request, Messages{
		Success: "Équipement mis à jour.",
		Failure: "Mise à jour de l'équipement impossible.",
	}, deps)
}

// ValidateEquipment は設備を検証済みにする。ペイロードは設備ID。
func ValidateEquipment(svc *service.EquipmentService, deps Deps) *Mutation[int, model.StatusResponse] {
	return New("validate_equipment", svc.Validate, Messages{
		Success: "Équipement validé.",
		Failure: "Validation de l'équipement impossible.",
	}, deps)
}

// RejectEquipment は設備を却下する。
func RejectEquipment(svc *service.EquipmentService, deps Deps) *Mutation[int, model.StatusResponse] {
	return New("reject_equipment", svc.Reject, Messages{
		Success: "Équipement marqué comme refusé.",
		Failure: "Rejet de l'équipement impossible.",
	}, deps)
}

// DeleteEquipment は設備を削除する。
func DeleteEquipment(svc *service.EquipmentService, deps Deps) *Mutation[int, struct{}] {
	request := func(ctx context.Context, id int) (struct{}, error) {
		return struct{}{}, svc.Delete(ctx, id)
	}
	return New("delete_equipment", request, Messages{
		Success: "Équipement supprimé.",
		Failure: "Suppression de l'équipement impossible.",
	}, deps)
}

// CreateDossier は書類を作成する。
func CreateDossier(svc *service.DossierService, deps Deps) *Mutation[model.CreateDossierPayload, model.Dossier] {
	return New("create_dossier", svc.Create, Messages{
		Success: "Dossier créé.",
		Failure: "Création du dossier impossible.",
	}, deps)
}

// ValidateDossier は書類を検証する。コメントが空ならボディを送らない。
func ValidateDossier(svc *service.DossierService, deps Deps) *Mutation[model.DossierDecision, model.StatusResponse] {
	request := func(ctx context.Context, d model.DossierDecision) (model.StatusResponse, error) {
		var payload *model.DossierDecisionPayload
		if d.Payload.Commentaire != "" {
			payload = &d.Payload
		}
		return svc.Validate(ctx, d.ID, payload)
	}
	return New("validate_dossier", request, Messages{
		Success: "Dossier validé.",
		Failure: "Validation du dossier impossible.",
	}, deps)
}

// RejectDossier は書類を却下する。コメントは必須。
func RejectDossier(svc *service.DossierService, deps Deps) *Mutation[model.DossierDecision, model.StatusResponse] {
	request := func(ctx context.Context, d model.DossierDecision) (model.StatusResponse, error) {
		return svc.Reject(ctx, d.ID, d.Payload)
	}
	m := New("reject_dossier", request, Messages{
		Success: "Dossier rejeté.",
		Failure: "Rejet du dossier impossible.",
	}, deps)
	m.validate = model.DossierDecision.ValidateRejection
	return m
}

// CreateCourrier は郵便物を作成する。
func CreateCourrier(svc *service.CourrierService, deps Deps) *Mutation[model.CreateCourrierPayload, model.Courrier] {
	return New("create_courrier", svc.Create, Messages{
		Success: "Courrier créé.",
		Failure: "Création du courrier impossible.",
	}, deps)
}

// UploadDocument は郵便物にファイルを添付する。
func UploadDocument(svc *service.DocumentService, deps Deps) *Mutation[model.UploadDocumentPayload, model.Document] {
	return New("upload_document", svc.Upload, Messages{
		Success: "Document ajouté.",
		Failure: "Ajout du document impossible.",
	}, deps)
}
