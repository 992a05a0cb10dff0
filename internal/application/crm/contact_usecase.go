// Package crm casos de uso de la cartera de contactos.
package crm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/application/ports"
	"github.com/jhoicas/crm-api/internal/domain"
	domaincrm "github.com/jhoicas/crm-api/internal/domain/crm"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

// sequenceScope identifica el consecutivo de contactos en el SequenceLocker.
const sequenceScope = "contacts"

// ContactUseCase casos de uso para contactos.
type ContactUseCase struct {
	repo repository.ContactRepository
	tx   ports.TxRunner
}

// NewContactUseCase construye el caso de uso.
func NewContactUseCase(repo repository.ContactRepository, tx ports.TxRunner) *ContactUseCase {
	return &ContactUseCase{repo: repo, tx: tx}
}

// Create crea un contacto con el siguiente consecutivo de la empresa.
func (uc *ContactUseCase) Create(ctx context.Context, companyID string, in dto.CreateContactRequest) (*dto.ContactResponse, error) {
	now := time.Now()
	c := &entity.Contact{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Phone:       in.Phone,
		CompanyName: in.CompanyName,
		Position:    in.Position,
		Status:      in.Status,
		Tags:        normalizeTags(in.Tags),
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c.Status == "" {
		c.Status = entity.ContactStatusLead
	}
	if err := validateContact(c); err != nil {
		return nil, err
	}
	err := uc.tx.RunInTx(ctx, func(repos repository.Repos) error {
		return createNumbered(ctx, repos, []*entity.Contact{c})
	})
	if err != nil {
		return nil, err
	}
	return toContactResponse(c), nil
}

// Get obtiene un contacto de la empresa.
func (uc *ContactUseCase) Get(ctx context.Context, companyID, id string) (*dto.ContactResponse, error) {
	c, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toContactResponse(c), nil
}

// List lista contactos con filtros y paginación.
func (uc *ContactUseCase) List(ctx context.Context, companyID string, in dto.ContactListRequest) (*dto.ContactListResponse, error) {
	in.DefaultPage()
	list, total, err := uc.repo.List(ctx, companyID, repository.ContactFilter{
		Status: in.Status,
		Tag:    in.Tag,
		Search: strings.TrimSpace(in.Search),
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ContactResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toContactResponse(c))
	}
	return &dto.ContactListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Update aplica los campos presentes en in.
func (uc *ContactUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateContactRequest) (*dto.ContactResponse, error) {
	c, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	setIf(&c.FirstName, in.FirstName)
	setIf(&c.LastName, in.LastName)
	setIf(&c.Email, in.Email)
	setIf(&c.Phone, in.Phone)
	setIf(&c.CompanyName, in.CompanyName)
	setIf(&c.Position, in.Position)
	setIf(&c.Status, in.Status)
	setIf(&c.Notes, in.Notes)
	if in.Tags != nil {
		c.Tags = normalizeTags(*in.Tags)
	}
	if err := validateContact(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toContactResponse(c), nil
}

// Delete elimina un contacto de la empresa.
func (uc *ContactUseCase) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uc.load(ctx, companyID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// FindDuplicates reporta los contactos cuya clave (nombre, apellido, email) repite la de
// un contacto creado antes.
func (uc *ContactUseCase) FindDuplicates(ctx context.Context, companyID string, skipBlank bool) (*dto.DuplicateReport, error) {
	list, err := uc.repo.ListAll(ctx, companyID)
	if err != nil {
		return nil, err
	}
	report, _ := buildReport(list, skipBlank)
	return report, nil
}

// RemoveDuplicates elimina en una transacción los duplicados y devuelve el reporte.
func (uc *ContactUseCase) RemoveDuplicates(ctx context.Context, companyID string, skipBlank bool) (*dto.DuplicateReport, error) {
	var report *dto.DuplicateReport
	err := uc.tx.RunInTx(ctx, func(repos repository.Repos) error {
		if err := repos.Locker.LockSequence(ctx, companyID, sequenceScope); err != nil {
			return err
		}
		list, err := repos.Contacts.ListAll(ctx, companyID)
		if err != nil {
			return err
		}
		var ids []string
		report, ids = buildReport(list, skipBlank)
		if len(ids) == 0 {
			return nil
		}
		report.Removed, err = repos.Contacts.DeleteMany(ctx, companyID, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func buildReport(list []*entity.Contact, skipBlank bool) (*dto.DuplicateReport, []string) {
	_, dups := domaincrm.Classify(domaincrm.WrapContacts(list), domaincrm.Options{SkipBlankKeys: skipBlank})
	report := &dto.DuplicateReport{
		Total:      len(list),
		Unique:     len(list) - len(dups),
		Duplicates: make([]dto.DuplicateEntry, 0, len(dups)),
	}
	ids := make([]string, 0, len(dups))
	for _, d := range dups {
		report.Duplicates = append(report.Duplicates, dto.DuplicateEntry{
			Duplicate: *toContactResponse(list[d.Index]),
			Survivor:  *toContactResponse(list[d.SurvivorIndex]),
		})
		ids = append(ids, list[d.Index].ID)
	}
	return report, ids
}

func (uc *ContactUseCase) load(ctx context.Context, companyID, id string) (*entity.Contact, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// createNumbered asigna consecutivos max+1… bajo el bloqueo de secuencia y persiste.
// Debe llamarse dentro de una transacción.
func createNumbered(ctx context.Context, repos repository.Repos, contacts []*entity.Contact) error {
	if len(contacts) == 0 {
		return nil
	}
	companyID := contacts[0].CompanyID
	if err := repos.Locker.LockSequence(ctx, companyID, sequenceScope); err != nil {
		return err
	}
	last, err := repos.Contacts.MaxNumber(ctx, companyID)
	if err != nil {
		return err
	}
	for _, c := range contacts {
		last++
		c.Number = last
		if err := repos.Contacts.Create(ctx, c); err != nil {
			return fmt.Errorf("crear contacto %d: %w", c.Number, err)
		}
	}
	return nil
}

func validateContact(c *entity.Contact) error {
	if strings.TrimSpace(c.FirstName) == "" && strings.TrimSpace(c.LastName) == "" && strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("%w: se requiere nombre, apellido o email", domain.ErrInvalidInput)
	}
	if !entity.ValidContactStatus(c.Status) {
		return fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, c.Status)
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func toContactResponse(c *entity.Contact) *dto.ContactResponse {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return &dto.ContactResponse{
		ID:          c.ID,
		Number:      c.Number,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Phone:       c.Phone,
		CompanyName: c.CompanyName,
		Position:    c.Position,
		Status:      c.Status,
		Tags:        tags,
		Notes:       c.Notes,
		Photo:       c.PhotoDataURL,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
