// Command pagestored is a long-running server that exposes a heap
// file of slotted pages over HTTP and gRPC, one page per registered
// table. It mirrors the teacher's cmd/server: a hand-rolled gRPC
// service descriptor with a JSON wire codec running alongside a
// plain net/http JSON API, both backed by the same in-process state.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"

	"github.com/SimonWaldherr/slotpage/internal/heapfile"
	"github.com/SimonWaldherr/slotpage/page"
)

var (
	flagDBPath  = flag.String("db", "pages.db", "path to the heap file")
	flagCatalog = flag.String("catalog", "catalog.json", "path to the table catalog")
	flagHTTP    = flag.String("http", ":8080", "HTTP listen address (empty to disable)")
	flagGRPC    = flag.String("grpc", ":9090", "gRPC listen address (empty to disable)")
	flagTenant  = flag.String("tenant", "default", "default tenant if none given in a request")
	flagCache   = flag.Int("cache-pages", 256, "buffer pool capacity in pages")
)

// Wire types, shared by the HTTP JSON API and the gRPC JSON codec.

type insertRequest struct {
	Tenant  string `json:"tenant"`
	Table   string `json:"table"`
	Payload []byte `json:"payload"`
}
type insertResponse struct {
	SlotID uint16 `json:"slot_id"`
	Error  string `json:"error,omitempty"`
}

type getRequest struct {
	Tenant string `json:"tenant"`
	Table  string `json:"table"`
	SlotID uint16 `json:"slot_id"`
}
type getResponse struct {
	Payload []byte `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

type deleteRequest struct {
	Tenant string `json:"tenant"`
	Table  string `json:"table"`
	SlotID uint16 `json:"slot_id"`
}
type deleteResponse struct {
	Error string `json:"error,omitempty"`
}

type statRequest struct {
	Tenant string `json:"tenant"`
	Table  string `json:"table"`
}
type statResponse struct {
	page.Stats
	Error string `json:"error,omitempty"`
}

// jsonCodec lets the gRPC server exchange plain JSON instead of
// protobuf wire frames, avoiding a .proto code-generation step.
type jsonCodec struct{}

func (jsonCodec) Name() string                      { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// PageStoreServer is the gRPC service interface, implemented by
// *server below. Method descriptors are registered by hand in
// registerPageStoreServer rather than generated from a .proto file.
type PageStoreServer interface {
	Insert(context.Context, *insertRequest) (*insertResponse, error)
	Get(context.Context, *getRequest) (*getResponse, error)
	Delete(context.Context, *deleteRequest) (*deleteResponse, error)
	Stat(context.Context, *statRequest) (*statResponse, error)
}

func registerPageStoreServer(s *grpc.Server, srv PageStoreServer) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: "pagestore.PageStore",
		HandlerType: (*PageStoreServer)(nil),
		Methods: []grpc.MethodDesc{
			{MethodName: "Insert", Handler: _PageStore_Insert_Handler},
			{MethodName: "Get", Handler: _PageStore_Get_Handler},
			{MethodName: "Delete", Handler: _PageStore_Delete_Handler},
			{MethodName: "Stat", Handler: _PageStore_Stat_Handler},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "pagestore",
	}, srv)
}

func _PageStore_Insert_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(insertRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PageStoreServer).Insert(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/pagestore.PageStore/Insert"}
	handler := func(ctx context.Context, req any) (any, error) { return srv.(PageStoreServer).Insert(ctx, req.(*insertRequest)) }
	return interceptor(ctx, in, info, handler)
}

func _PageStore_Get_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(getRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PageStoreServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/pagestore.PageStore/Get"}
	handler := func(ctx context.Context, req any) (any, error) { return srv.(PageStoreServer).Get(ctx, req.(*getRequest)) }
	return interceptor(ctx, in, info, handler)
}

func _PageStore_Delete_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(deleteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PageStoreServer).Delete(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/pagestore.PageStore/Delete"}
	handler := func(ctx context.Context, req any) (any, error) { return srv.(PageStoreServer).Delete(ctx, req.(*deleteRequest)) }
	return interceptor(ctx, in, info, handler)
}

func _PageStore_Stat_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(statRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PageStoreServer).Stat(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/pagestore.PageStore/Stat"}
	handler := func(ctx context.Context, req any) (any, error) { return srv.(PageStoreServer).Stat(ctx, req.(*statRequest)) }
	return interceptor(ctx, in, info, handler)
}

// server holds the process's shared state. A single mutex serializes
// every page operation: page.Page has no internal synchronization of
// its own (by design — see the page package doc comment), so the
// server plays the role the teacher's buffer pool locking plays for
// its B+Tree pages.
type server struct {
	mu       sync.Mutex
	hf       *heapfile.HeapFile
	cat      *heapfile.Catalog
	defaultT string
}

func newServer(hf *heapfile.HeapFile, cat *heapfile.Catalog) *server {
	return &server{hf: hf, cat: cat, defaultT: *flagTenant}
}

func (s *server) tenantOrDefault(t string) string {
	if t == "" {
		return s.defaultT
	}
	return t
}

// resolvePage returns the first page id backing (tenant, table),
// registering a freshly allocated page on first use.
func (s *server) resolvePage(tenant, table string) (uint16, error) {
	e, err := s.cat.Lookup(tenant, table)
	if err == nil {
		return e.FirstPageID, nil
	}
	if !errors.Is(err, heapfile.ErrNotFound) {
		return 0, err
	}
	p, err := s.hf.Allocate()
	if err != nil {
		return 0, err
	}
	id, _ := p.PageID()
	if err := s.hf.Unpin(id, false); err != nil {
		return 0, err
	}
	if _, err := s.cat.Register(tenant, table, id); err != nil {
		return 0, err
	}
	return id, nil
}

func (s *server) Insert(_ context.Context, req *insertRequest) (*insertResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.resolvePage(s.tenantOrDefault(req.Tenant), req.Table)
	if err != nil {
		return &insertResponse{Error: err.Error()}, nil
	}
	p, err := s.hf.Fetch(id)
	if err != nil {
		return &insertResponse{Error: err.Error()}, nil
	}
	defer s.hf.Unpin(id, true)
	slot, err := p.Insert(req.Payload)
	if err != nil {
		return &insertResponse{Error: err.Error()}, nil
	}
	return &insertResponse{SlotID: slot}, nil
}

func (s *server) Get(_ context.Context, req *getRequest) (*getResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.resolvePage(s.tenantOrDefault(req.Tenant), req.Table)
	if err != nil {
		return &getResponse{Error: err.Error()}, nil
	}
	p, err := s.hf.Fetch(id)
	if err != nil {
		return &getResponse{Error: err.Error()}, nil
	}
	defer s.hf.Unpin(id, false)
	payload, err := p.Get(req.SlotID)
	if err != nil {
		return &getResponse{Error: err.Error()}, nil
	}
	return &getResponse{Payload: payload}, nil
}

func (s *server) Delete(_ context.Context, req *deleteRequest) (*deleteResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.resolvePage(s.tenantOrDefault(req.Tenant), req.Table)
	if err != nil {
		return &deleteResponse{Error: err.Error()}, nil
	}
	p, err := s.hf.Fetch(id)
	if err != nil {
		return &deleteResponse{Error: err.Error()}, nil
	}
	defer s.hf.Unpin(id, true)
	if err := p.Delete(req.SlotID); err != nil {
		return &deleteResponse{Error: err.Error()}, nil
	}
	return &deleteResponse{}, nil
}

func (s *server) Stat(_ context.Context, req *statRequest) (*statResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.resolvePage(s.tenantOrDefault(req.Tenant), req.Table)
	if err != nil {
		return &statResponse{Error: err.Error()}, nil
	}
	p, err := s.hf.Fetch(id)
	if err != nil {
		return &statResponse{Error: err.Error()}, nil
	}
	defer s.hf.Unpin(id, false)
	st, err := p.Stat()
	if err != nil {
		return &statResponse{Error: err.Error()}, nil
	}
	return &statResponse{Stats: st}, nil
}

// HTTP handlers, mirroring the teacher's handleExec/handleQuery/writeJSON idiom.

func (s *server) handleInsert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req insertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	resp, _ := s.Insert(r.Context(), &req)
	writeJSON(w, resp)
}

func (s *server) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req getRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	resp, _ := s.Get(r.Context(), &req)
	writeJSON(w, resp)
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	resp, _ := s.Delete(r.Context(), &req)
	writeJSON(w, resp)
}

func (s *server) handleStat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req statRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	resp, _ := s.Stat(r.Context(), &req)
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func main() {
	flag.Parse()

	hf, err := heapfile.Open(heapfile.Config{Path: *flagDBPath, MaxCachedPages: *flagCache})
	if err != nil {
		log.Fatalf("open heap file: %v", err)
	}
	defer hf.Close()

	cat, err := heapfile.OpenCatalog(*flagCatalog)
	if err != nil {
		log.Fatalf("open catalog: %v", err)
	}

	srv := newServer(hf, cat)
	encoding.RegisterCodec(jsonCodec{})

	if *flagGRPC != "" {
		go func() {
			lis, err := net.Listen("tcp", *flagGRPC)
			if err != nil {
				log.Printf("gRPC listen error: %v", err)
				return
			}
			gs := grpc.NewServer()
			registerPageStoreServer(gs, srv)
			log.Printf("gRPC listening on %s", *flagGRPC)
			if err := gs.Serve(lis); err != nil {
				log.Printf("gRPC serve error: %v", err)
			}
		}()
	}

	if *flagHTTP == "" {
		select {}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/insert", srv.handleInsert)
	mux.HandleFunc("/api/get", srv.handleGet)
	mux.HandleFunc("/api/delete", srv.handleDelete)
	mux.HandleFunc("/api/stat", srv.handleStat)
	log.Printf("HTTP listening on %s", *flagHTTP)
	if err := http.ListenAndServe(*flagHTTP, mux); err != nil {
		log.Fatalf("HTTP serve error: %v", err)
	}
}
