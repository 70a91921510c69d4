package healthcheck

import (
	"encoding/json"
	"net/http"
)

// Self reports process liveness. It deliberately touches no backing
// store so a database outage does not take the instance out of rotation.
func Self(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
