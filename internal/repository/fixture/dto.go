package fixture

import (
	domfx "github.com/kailas-cloud/searchstub/internal/domain/fixture"
)

// fixtureDTO is the stored form of a fixture. Key is the full request key; the storage
// key only carries its hash, so lookups compare it before trusting a record.
type fixtureDTO struct {
	Seq         int64    `json:"seq"`
	Key         string   `json:"key"`
	Method      string   `json:"method"`
	URL         string   `json:"url"`
	Accept      []string `json:"accept"`
	Status      int      `json:"status"`
	ContentType string   `json:"content_type"`
	Body        []byte   `json:"body"`
}

func toDTO(seq int64, f domfx.Fixture) fixtureDTO {
	return fixtureDTO{
		Seq:         seq,
		Key:         f.Request.Key(),
		Method:      f.Request.Method,
		URL:         f.Request.URL,
		Accept:      f.Request.Accept,
		Status:      f.Response.Status,
		ContentType: f.Response.ContentType,
		Body:        f.Response.Body,
	}
}

func (d fixtureDTO) toDomain() domfx.Fixture {
	return domfx.Fixture{
		Request: domfx.Request{
			Method: d.Method,
			URL:    d.URL,
			Accept: d.Accept,
		},
		Response: domfx.Response{
			Status:      d.Status,
			ContentType: d.ContentType,
			Body:        d.Body,
		},
	}
}
