package crm

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
)

// MaxPhotoSize tamaño máximo de la foto de un contacto.
const MaxPhotoSize = 2 << 20

var photoTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// SetPhoto guarda la imagen como data URL en el contacto.
// El tipo se detecta por contenido, no por la extensión del archivo.
func (uc *ContactUseCase) SetPhoto(ctx context.Context, companyID, id string, data []byte) (*dto.ContactResponse, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: imagen vacía", domain.ErrInvalidInput)
	}
	if len(data) > MaxPhotoSize {
		return nil, fmt.Errorf("%w: la imagen supera 2 MiB", domain.ErrInvalidInput)
	}
	mime := http.DetectContentType(data)
	if !slices.Contains(photoTypes, mime) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileFormat, mime)
	}
	c, err := uc.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	c.PhotoDataURL = "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toContactResponse(c), nil
}

// ClearPhoto elimina la foto del contacto.
func (uc *ContactUseCase) ClearPhoto(ctx context.Context, companyID, id string) error {
	c, err := uc.load(ctx, companyID, id)
	if err != nil {
		return err
	}
	c.PhotoDataURL = ""
	c.UpdatedAt = time.Now()
	return uc.repo.Update(ctx, c)
}
