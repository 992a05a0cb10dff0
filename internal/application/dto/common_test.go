package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/crm-api/internal/application/dto"
)

func TestNewPageRequest_Topes(t *testing.T) {
	cases := []struct {
		name          string
		limit, offset int
		want          dto.PageRequest
	}{
		{"sin valores", 0, 0, dto.PageRequest{Limit: dto.DefaultPageLimit}},
		{"limit negativo", -5, 10, dto.PageRequest{Limit: dto.DefaultPageLimit, Offset: 10}},
		{"limit sobre el tope", 500, 0, dto.PageRequest{Limit: dto.MaxPageLimit}},
		{"offset negativo", 50, -1, dto.PageRequest{Limit: 50}},
		{"valores válidos", 100, 200, dto.PageRequest{Limit: 100, Offset: 200}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, dto.NewPageRequest(tc.limit, tc.offset))
		})
	}
}

func TestDefaultPage_FiltroEmbebido(t *testing.T) {
	in := dto.ContactListRequest{PageRequest: dto.PageRequest{Limit: 1000}}
	in.DefaultPage()
	assert.Equal(t, dto.MaxPageLimit, in.Limit)
}
