package oracle

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/quic-go/quic-go/http3"

	"github.com/sfuzz-go/mutation/internal/mutation"
)

// wireResult is the JSON body exchanged between a RemoteOracleServer
// and a Remote client.
type wireResult struct {
	Cksum   uint64 `json:"cksum"`
	HitRank uint8  `json:"hit_rank"`
}

// RemoteOracleServer exposes a TargetContainer over HTTP/3, letting the
// target run out-of-process (a separate privilege domain, or a
// different machine than the mutation engine's workers).
type RemoteOracleServer struct {
	target TargetContainer
	srv    *http3.Server
	pc     net.PacketConn
}

// NewRemoteOracleServer binds target behind an HTTP/3 listener at addr,
// using tlsCfg if non-nil or a generated self-signed certificate
// otherwise.
func NewRemoteOracleServer(addr string, tlsCfg *tls.Config, target TargetContainer) (*RemoteOracleServer, error) {
	if tlsCfg == nil {
		var err error

		tlsCfg, err = generateSelfSignedTLS([]string{"localhost", "127.0.0.1"}, 0)
		if err != nil {
			return nil, err
		}
	}

	mux := http.NewServeMux()
	s := &RemoteOracleServer{target: target}
	mux.HandleFunc("/execute", s.handleExecute)

	s.srv = &http3.Server{Addr: addr, TLSConfig: tlsCfg, Handler: mux}

	return s, nil
}

func (s *RemoteOracleServer) handleExecute(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, rank, err := s.target.Execute(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(wireResult{Cksum: res.Cksum, HitRank: uint8(rank)})
}

// Start begins serving on the bound address.
func (s *RemoteOracleServer) Start() error {
	var err error

	s.pc, err = net.ListenPacket("udp", s.srv.Addr)
	if err != nil {
		return err
	}

	return s.srv.Serve(s.pc)
}

// Stop closes the listener.
func (s *RemoteOracleServer) Stop() error {
	if s.pc != nil {
		return s.pc.Close()
	}

	return nil
}

// Remote is a mutation.Oracle backed by a RemoteOracleServer, reached
// over HTTP/3. A candidate that can't be round-tripped (network error,
// malformed response) reports mutation.HitNone rather than panicking,
// since a transient transport failure shouldn't abort a fuzz run.
type Remote struct {
	url    string
	client *http.Client
}

// NewRemote dials url ("https://host:port/execute") using a TLS config
// that trusts the server's self-signed certificate, or the system pool
// if tlsCfg is nil.
func NewRemote(url string, tlsCfg *tls.Config, timeout time.Duration) *Remote {
	if tlsCfg == nil {
		tlsCfg = &tls.Config{MinVersion: tls.VersionTLS13, NextProtos: []string{"h3"}}
	}

	tr := &http3.Transport{TLSClientConfig: tlsCfg}

	return &Remote{url: url, client: &http.Client{Transport: tr, Timeout: timeout}}
}

func (r *Remote) Oracle() mutation.Oracle {
	return func(data []byte) mutation.FuzzItem {
		item := mutation.FuzzItem{Data: data}

		resp, err := r.client.Post(r.url, "application/octet-stream", bytes.NewReader(data))
		if err != nil {
			return item
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return item
		}

		var wr wireResult
		if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
			return item
		}

		item.Res = mutation.Result{Cksum: wr.Cksum}
		item.HitRank = mutation.HitRank(wr.HitRank)

		return item
	}
}

// Close releases the underlying HTTP/3 transport's resources.
func (r *Remote) Close() error {
	if tr, ok := r.client.Transport.(*http3.Transport); ok {
		return tr.Close()
	}

	return nil
}

