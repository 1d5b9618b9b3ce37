// Package fakebridge serves the subset of the Hue v1 API and the cloud
// discovery endpoint that the client talks to, backed by in-memory state.
package fakebridge

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/amimof/huego"
)

type Server struct {
	*httptest.Server

	mu sync.Mutex

	bridgeID        string
	pairAfter       int
	issuedUsername  string
	discovered      []DiscoveryRecord
	malformedLights bool

	users        map[string]bool
	lights       map[string]*huego.Light
	pairAttempts int
	deviceTypes  []string
	stateBodies  []map[string]interface{}
}

type DiscoveryRecord struct {
	ID                string `json:"id"`
	InternalIPAddress string `json:"internalipaddress"`
}

func New() *Server {
	s := &Server{
		bridgeID:       "001788FFFE102201",
		issuedUsername: "fake-user-0001",
		users:          make(map[string]bool),
		lights: map[string]*huego.Light{
			"1": {Name: "Hue color lamp 1", Type: "Extended color light", ModelID: "LCT001", ManufacturerName: "Philips", State: &huego.State{On: true, Bri: 200, Reachable: true}},
			"2": {Name: "Hue white lamp", Type: "Dimmable light", ModelID: "LWB004", ManufacturerName: "Philips", State: &huego.State{On: false, Bri: 1, Reachable: true}},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/discovery", s.handleDiscovery)
	mux.HandleFunc("/api", s.handleAPI)
	mux.HandleFunc("/api/", s.handleAPI)
	s.Server = httptest.NewServer(mux)
	return s
}

// Address is the host:port the client should use as the bridge address.
func (s *Server) Address() string {
	return strings.TrimPrefix(s.URL, "http://")
}

func (s *Server) DiscoveryURL() string {
	return s.URL + "/discovery"
}

// SetBridgeID changes what /api/config reports. Empty omits the field.
func (s *Server) SetBridgeID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bridgeID = id
}

// SetPairAfter makes the n-th pairing attempt (1-based) succeed; 0 never succeeds.
func (s *Server) SetPairAfter(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pairAfter = n
}

// SetDiscovered sets the records served on /discovery.
func (s *Server) SetDiscovered(records ...DiscoveryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discovered = records
}

// SetMalformedLights makes the lights endpoint return an unparsable body.
func (s *Server) SetMalformedLights(malformed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.malformedLights = malformed
}

// AddUser whitelists a username as if it had been paired earlier.
func (s *Server) AddUser(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = true
}

func (s *Server) PairAttempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pairAttempts
}

func (s *Server) DeviceTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deviceTypes...)
}

// StateBodies returns every decoded light state body received, in order.
func (s *Server) StateBodies() []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]interface{}(nil), s.stateBodies...)
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	records := s.discovered
	s.mu.Unlock()
	if records == nil {
		records = []DiscoveryRecord{}
	}
	writeJSON(w, records)
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if r.Method == http.MethodPost && (path == "" || path == "/") {
		s.handleRegister(w, r)
		return
	}
	if len(parts) == 1 && parts[0] == "config" {
		s.handleConfig(w, r)
		return
	}
	if len(parts) < 2 || parts[0] == "" {
		writeError(w, 3, path, fmt.Sprintf("resource, %s, not available", path))
		return
	}

	s.mu.Lock()
	authorized := s.users[parts[0]]
	s.mu.Unlock()
	if !authorized {
		writeError(w, 1, path, "unauthorized user")
		return
	}

	subPath := parts[1:]
	switch {
	case subPath[0] == "lights" && len(subPath) == 1:
		s.handleGetLights(w, r)
	case subPath[0] == "lights" && len(subPath) == 3 && subPath[2] == "state":
		s.handleSetLightState(w, r, subPath[1])
	default:
		writeError(w, 3, path, fmt.Sprintf("resource, %s, not available", path))
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DeviceType string `json:"devicetype"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, 2, "/", "body contains invalid json")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pairAttempts++
	s.deviceTypes = append(s.deviceTypes, body.DeviceType)

	if s.pairAfter == 0 || s.pairAttempts < s.pairAfter {
		writeError(w, 101, "", "link button not pressed")
		return
	}
	s.users[s.issuedUsername] = true
	writeJSON(w, []map[string]interface{}{
		{"success": map[string]string{"username": s.issuedUsername}},
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	cfg := map[string]interface{}{
		"name":       "Philips hue",
		"swversion":  "1967054020",
		"apiversion": "1.67.0",
		"mac":        "00:17:88:10:22:01",
		"modelid":    "BSB002",
	}
	s.mu.Lock()
	if s.bridgeID != "" {
		cfg["bridgeid"] = s.bridgeID
	}
	s.mu.Unlock()
	writeJSON(w, cfg)
}

func (s *Server) handleGetLights(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.malformedLights {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"1": {"name": `)
		return
	}
	writeJSON(w, s.lights)
}

func (s *Server) handleSetLightState(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var stateUpdate map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&stateUpdate); err != nil {
		writeError(w, 2, "/lights/"+id+"/state", "body contains invalid json")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stateBodies = append(s.stateBodies, stateUpdate)

	light, ok := s.lights[id]
	if !ok {
		writeError(w, 3, "/lights/"+id+"/state", fmt.Sprintf("resource, /lights/%s/state, not available", id))
		return
	}

	resp := []map[string]interface{}{}
	for k, v := range stateUpdate {
		address := fmt.Sprintf("/lights/%s/state/%s", id, k)
		switch k {
		case "on":
			on, _ := v.(bool)
			light.State.On = on
		case "bri":
			bri, _ := v.(float64)
			light.State.Bri = uint8(bri)
		case "effect":
			if !light.State.On {
				resp = append(resp, map[string]interface{}{
					"error": map[string]interface{}{"type": 201, "address": address, "description": fmt.Sprintf("parameter, %s, is not modifiable. Device is set to off.", k)},
				})
				continue
			}
		}
		resp = append(resp, map[string]interface{}{
			"success": map[string]interface{}{address: v},
		})
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, address, description string) {
	writeJSON(w, []map[string]interface{}{
		{"error": map[string]interface{}{"type": code, "address": address, "description": description}},
	})
}
