package solvex_test

import (
	"bytes"
	"compress/flate"
	jsonEncoding "encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"bitbucket.org/olympichub/supplier-hub/internal/schema"
)

const testGuid = "123e4567-e89b-12d3-a456-426614174000"

// soapHandler answers one non-Connect call; Connect is handled by the server
// itself so tests can count reconnects.
type soapHandler func(method string, body string) (int, string)

type soapServer struct {
	*httptest.Server

	mu       sync.Mutex
	connects int
	guids    []string
}

// newSoapServer starts a fixture endpoint speaking the upstream's SOAP shape.
// Connect hands out testGuid (or the provided override sequence), everything
// else goes through handle.
func newSoapServer(t *testing.T, handle soapHandler, guids ...string) *soapServer {
	t.Helper()

	s := &soapServer{guids: guids}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, _ := io.ReadAll(r.Body)
		method := strings.TrimPrefix(r.Header.Get("SOAPAction"), "http://www.megatec.ru/")

		if method == "Connect" {
			s.mu.Lock()
			guid := testGuid
			if s.connects < len(s.guids) {
				guid = s.guids[s.connects]
			}
			s.connects++
			s.mu.Unlock()

			w.WriteHeader(http.StatusOK)
			w.Write([]byte(soapResult("Connect", guid)))
			return
		}

		status, response := handle(method, string(bodyBytes))
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(s.Server.Close)

	return s
}

func (s *soapServer) Connects() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connects
}

func soapResult(method string, inner string) string {
	return `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
	<soap:Body>
		<` + method + `Response xmlns="http://www.megatec.ru/">
			<` + method + `Result>` + inner + `</` + method + `Result>
		</` + method + `Response>
	</soap:Body>
</soap:Envelope>`
}

func soapFault(reason string) string {
	return `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
	<soap:Body>
		<soap:Fault>
			<faultcode>soap:Server</faultcode>
			<faultstring>` + reason + `</faultstring>
		</soap:Fault>
	</soap:Body>
</soap:Envelope>`
}

func defaultConfiguration(url string) schema.SolvexConfiguration {
	return schema.SolvexConfiguration{
		Login:          "test-login",
		Password:       "test-password",
		SupplierApiUrl: url,
	}
}

func requestConfiguration(t *testing.T, configuration schema.SolvexConfiguration) schema.RequestConfiguration {
	t.Helper()

	b, err := jsonEncoding.Marshal(configuration)
	if err != nil {
		t.Fatal(err)
	}

	var rc schema.RequestConfiguration
	if err := jsonEncoding.Unmarshal(b, &rc); err != nil {
		t.Fatal(err)
	}

	return rc
}

func defaultTimeouts() schema.Timeouts {
	return schema.Timeouts{Default: 8000}
}

// compressed replicates the cacher's deflate+JSON encoding so redismock can
// match the stored value exactly.
func compressed(t *testing.T, value any) []byte {
	t.Helper()

	raw, err := jsonEncoding.Marshal(value)
	if err != nil {
		t.Fatal(err)
	}

	var buffer bytes.Buffer
	writer, _ := flate.NewWriter(&buffer, flate.BestSpeed)
	if _, err := writer.Write(raw); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	return buffer.Bytes()
}
