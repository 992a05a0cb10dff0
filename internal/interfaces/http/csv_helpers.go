package http

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/pkg/csvcodec"
)

// csvFormat lee ?format= y cae al formato configurado.
func csvFormat(c *fiber.Ctx, def string) (csvcodec.Format, error) {
	f := c.Query("format")
	if f == "" {
		f = def
	}
	return csvcodec.ParseFormat(f)
}

// sendCSV escribe el export en memoria y lo envía como adjunto.
// name sin extensión; se añade la fecha del día.
func sendCSV(c *fiber.Ctx, name string, write func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return respondError(c, err)
	}
	filename := fmt.Sprintf("%s-%s.csv", name, time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// importSource devuelve el CSV subido: campo multipart "file" o el cuerpo crudo.
func importSource(c *fiber.Ctx) (io.Reader, func(), error) {
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, nil, err
		}
		return f, func() { _ = f.Close() }, nil
	}
	body := c.Body()
	if len(body) == 0 {
		return nil, nil, fmt.Errorf("archivo CSV requerido (campo file o cuerpo)")
	}
	return bytes.NewReader(body), func() {}, nil
}

// importOptions parsea ?format=&charset=&dedup= aplicando el formato por defecto.
func importOptions(c *fiber.Ctx, def string) (dto.ImportOptions, error) {
	var opts dto.ImportOptions
	if err := c.QueryParser(&opts); err != nil {
		return opts, err
	}
	if opts.Format == "" {
		opts.Format = def
	}
	return opts, nil
}
