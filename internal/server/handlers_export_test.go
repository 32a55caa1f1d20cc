package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportBody = `{
	"cv": {
		"personal_info": {"name": "Diana Moreno"},
		"experience": [{
			"id": "exp-1",
			"company": "Acme & Co",
			"position": "Backend Developer",
			"start_date": "2022-01",
			"current": true
		}]
	}
}`

func TestExport_TexDownload(t *testing.T) {
	s, _, _ := newTestServer(t, testServerOptions{})

	w := doJSON(t, s.handler(), http.MethodPost, "/api/cv/export", "", exportBody)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "text/x-tex; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="cv.tex"`)

	document := w.Body.String()
	assert.Contains(t, document, `\documentclass`)
	assert.Contains(t, document, `Acme \& Co`)
	assert.Contains(t, document, "Diana Moreno")
}

func TestExport_Overleaf(t *testing.T) {
	s, _, _ := newTestServer(t, testServerOptions{})

	w := doJSON(t, s.handler(), http.MethodPost, "/api/cv/export?overleaf=1", "", exportBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp["url"], overleafBase), "url should point at Overleaf")
	assert.Contains(t, resp["url"], "data%3Aapplication%2Fx-tex%3Bbase64%2C")
}

func TestExport_MissingCV(t *testing.T) {
	s, _, _ := newTestServer(t, testServerOptions{})

	w := doJSON(t, s.handler(), http.MethodPost, "/api/cv/export", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
