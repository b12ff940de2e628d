package particle

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/brutella/hc/log"
	"github.com/gorilla/mux"

	tfaccessory "github.com/cloudkucooland/auroralights/accessory"
	"github.com/cloudkucooland/auroralights/aurora"
)

type patternStatus struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	On    bool   `json:"on"`
}

type lightStatus struct {
	Name     string          `json:"name"`
	Profile  string          `json:"profile"`
	State    aurora.State    `json:"state"`
	Patterns []patternStatus `json:"patterns"`
}

// RegisterRoutes is called by the HTTP platform
func RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/aurora/{name}", statusHandler).Methods(http.MethodGet)
	r.HandleFunc("/aurora/{name}/pattern/{mode:[0-9]+}", patternHandler).Methods(http.MethodPut, http.MethodPost)
	r.HandleFunc("/aurora/{name}/brightness/{pct:[0-9]+}", brightnessHandler).Methods(http.MethodPut, http.MethodPost)
}

func lookup(w http.ResponseWriter, r *http.Request) (*tfaccessory.TFAccessory, bool) {
	name := mux.Vars(r)["name"]
	a, ok := Platform{}.GetAccessory(name)
	if !ok {
		jsonError(w, http.StatusNotFound, fmt.Sprintf("unknown light: %s", name))
		return nil, false
	}
	return a, true
}

func statusHandler(w http.ResponseWriter, r *http.Request) {
	a, ok := lookup(w, r)
	if !ok {
		return
	}

	st, err := a.Adapter.State(r.Context())
	if err != nil {
		remoteError(w, a, err)
		return
	}

	ls := lightStatus{
		Name:    a.Adapter.Name(),
		Profile: a.Adapter.Profile().Name,
		State:   st,
	}
	for _, p := range a.Adapter.Patterns() {
		ls.Patterns = append(ls.Patterns, patternStatus{
			Index: p.Index,
			Name:  p.Name,
			On:    st.On && st.Mode == p.Index,
		})
	}
	writeJSON(w, http.StatusOK, ls)
}

func patternHandler(w http.ResponseWriter, r *http.Request) {
	a, ok := lookup(w, r)
	if !ok {
		return
	}

	mode, _ := strconv.Atoi(mux.Vars(r)["mode"])
	light, ok := a.Adapter.Light(mode)
	if !ok {
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("unknown pattern: %d", mode))
		return
	}

	log.Info.Printf("setting [%s] to %s from HTTP", a.Name, light.Label())
	if err := light.SetOn(r.Context(), true); err != nil {
		remoteError(w, a, err)
		return
	}
	if svc, ok := a.Adapter.PatternService(mode); ok {
		svc.UpdateOn(true)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func brightnessHandler(w http.ResponseWriter, r *http.Request) {
	a, ok := lookup(w, r)
	if !ok {
		return
	}

	pct, _ := strconv.Atoi(mux.Vars(r)["pct"])
	if pct > 100 {
		jsonError(w, http.StatusBadRequest, fmt.Sprintf("brightness out of range: %d", pct))
		return
	}

	log.Info.Printf("setting [%s] brightness [%d] from HTTP", a.Name, pct)
	if err := a.Adapter.SetBrightness(r.Context(), pct); err != nil {
		remoteError(w, a, err)
		return
	}
	for _, p := range a.Adapter.Patterns() {
		if svc, ok := a.Adapter.PatternService(p.Index); ok {
			svc.UpdateBrightness(pct)
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func remoteError(w http.ResponseWriter, a *tfaccessory.TFAccessory, err error) {
	log.Info.Printf("[%s]: %s", a.Name, err.Error())
	jsonError(w, http.StatusBadGateway, err.Error())
}

func jsonError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"status": "bad", "error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Info.Println(err.Error())
	}
}
