package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleRecords = `[
	{"Id": 1, "Nombre": "Ana", "CreatedAt": "2024-03-12 15:00:00", "Estado CRM": "Compró", "Monto Venta Cerrada (PEN)": 350},
	{"Id": 2, "Nombre": "Luis", "CreatedAt": "2024-03-10 09:00:00", "Estado CRM": "Agendado"},
	{"Id": 3, "Nombre": "Carla", "CreatedAt": "bad", "Estado CRM": "Descalificado"}
]`

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TIMEZONE", "America/Lima")
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDecodeRecordsShapes(t *testing.T) {
	for name, content := range map[string]string{
		"array": sampleRecords,
		"page":  `{"list": ` + sampleRecords + `, "pageInfo": {"totalRows": 3}}`,
		"proxy": `{"success": true, "count": 3, "data": ` + sampleRecords + `}`,
	} {
		records, err := decodeRecords([]byte(content))
		require.NoError(t, err, name)
		require.Len(t, records, 3, name)
	}

	_, err := decodeRecords([]byte(`{"rows": []}`))
	require.Error(t, err)
	_, err = decodeRecords([]byte(`[{`))
	require.Error(t, err)
}

func TestReportFromFile(t *testing.T) {
	out, err := runCmd(t, "report", "--file", writeDump(t, sampleRecords), "--filter", "custom", "--start", "2024-03-01", "--end", "2024-03-31")
	require.NoError(t, err)

	var r report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.Equal(t, 3, r.Leads)
	require.Equal(t, 1, r.Quality.TotalRecords-r.Quality.ValidRecords)
	require.Equal(t, 3, r.Dashboard.Metrics.TotalLeads)
	require.Equal(t, 2, r.Dashboard.Metrics.NewLeads)
	require.Equal(t, 1, r.Dashboard.Metrics.Scheduled)
	require.InDelta(t, 350, r.Dashboard.Metrics.Revenue, 1e-9)
	require.Equal(t, 3, r.Dashboard.Funnel[0].Count)
	require.Equal(t, 3, r.Dashboard.Pipeline.Total)
}

func TestReportYAML(t *testing.T) {
	out, err := runCmd(t, "report", "-f", writeDump(t, sampleRecords), "-o", "yaml")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Equal(t, 3, doc["leads"])
	dashboard, ok := doc["dashboard"].(map[string]interface{})
	require.True(t, ok)
	require.Contains(t, dashboard, "metrics")
	require.Contains(t, dashboard, "funnel")
}

func TestReportRejectsBadInput(t *testing.T) {
	_, err := runCmd(t, "report", "-f", writeDump(t, sampleRecords), "-o", "xml")
	require.ErrorContains(t, err, "unsupported format")

	_, err = runCmd(t, "report", "-f", writeDump(t, sampleRecords), "--start", "01/03/2024")
	require.ErrorContains(t, err, "invalid date")

	_, err = runCmd(t, "report", "-f", filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorContains(t, err, "failed to read dump")
}

func TestReportFetchesFromNocoDB(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("xc-token") != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"list": ` + sampleRecords + `, "pageInfo": {"totalRows": 3}}`))
	}))
	defer server.Close()

	t.Setenv("NOCODB_API_URL", server.URL)
	t.Setenv("NOCODB_API_TOKEN", "tok")

	out, err := runCmd(t, "report")
	require.NoError(t, err)

	var r report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.Equal(t, "nocodb", r.Source)
	require.Equal(t, 3, r.Leads)
}

func TestReportWithoutNocoDB(t *testing.T) {
	t.Setenv("NOCODB_API_URL", "")
	t.Setenv("NOCODB_API_TOKEN", "")

	_, err := runCmd(t, "report")
	require.ErrorContains(t, err, "not configured")
}
