package solvex

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"bitbucket.org/olympichub/supplier-hub/internal/platform/implementations/solvex/megatec"
	"bitbucket.org/olympichub/supplier-hub/internal/schema"
)

// The service returns its rejection of bad credentials inside an HTTP 200:
// the ConnectResult is then an error string instead of a guid. Real guids are
// 36 characters, anything at or below this length is a failure message.
const minTokenLength = 10

// session owns the guid for one credential set. The guid lives in memory
// only: a process restart reconnects. All calls snapshot the guid once at
// operation start; on an auth-shaped rejection the session reconnects at most
// once and the call is retried with the fresh guid.
type session struct {
	configuration schema.SolvexConfiguration

	mu    sync.Mutex
	token string
}

func (s *session) connectParams() megatec.Params {
	return megatec.Params{
		{Name: "login", Value: s.configuration.Login},
		{Name: "password", Value: s.configuration.Password},
	}
}

// connectLocked performs Connect and stores the guid. Callers hold s.mu.
func (s *session) connectLocked(ctx context.Context, client *http.Client) (string, error) {
	result, err := soapCall(ctx, client, s.configuration.SupplierApiUrl, schema.Auth, "Connect", s.connectParams())
	if err != nil {
		return "", err
	}

	guid := strings.TrimSpace(megatec.Text(result))
	if len(guid) <= minTokenLength {
		return "", &megatec.AuthFault{Msg: "connect rejected: " + guid}
	}

	s.token = guid

	return guid, nil
}

// ensure returns the current guid, connecting first when there is none.
func (s *session) ensure(ctx context.Context, client *http.Client) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" {
		return s.token, nil
	}

	return s.connectLocked(ctx, client)
}

// refresh replaces a guid the upstream rejected. When another operation
// already reconnected in the meantime the newer guid is reused instead of
// connecting again.
func (s *session) refresh(ctx context.Context, client *http.Client, stale string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.token != stale {
		return s.token, nil
	}

	s.token = ""

	return s.connectLocked(ctx, client)
}

// invoke runs one authenticated call. build receives the guid because the
// guid's position inside the parameter sequence differs per method.
func (s *session) invoke(
	ctx context.Context,
	client *http.Client,
	name schema.SupplierRequestName,
	method string,
	build func(token string) megatec.Params,
) (any, error) {
	token, err := s.ensure(ctx, client)
	if err != nil {
		return nil, err
	}

	result, err := soapCall(ctx, client, s.configuration.SupplierApiUrl, name, method, build(token))
	if err == nil || !megatec.IsAuthShaped(err) {
		return result, err
	}

	token, refreshErr := s.refresh(ctx, client, token)
	if refreshErr != nil {
		return nil, refreshErr
	}

	return soapCall(ctx, client, s.configuration.SupplierApiUrl, name, method, build(token))
}

// sessionPool hands out one session per credential set so guids survive
// across requests within the process lifetime.
type sessionPool struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionPool() *sessionPool {
	return &sessionPool{
		sessions: map[string]*session{},
	}
}

func (p *sessionPool) For(configuration schema.SolvexConfiguration) *session {
	key := configuration.SupplierApiUrl + ":" + configuration.Login + ":" + configuration.Password

	p.mu.Lock()
	defer p.mu.Unlock()

	existing, ok := p.sessions[key]
	if ok {
		return existing
	}

	created := &session{configuration: configuration}
	p.sessions[key] = created

	return created
}
