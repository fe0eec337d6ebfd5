package api

import (
	"net/http"
	"regexp"
	"strings"
)

var localhostPattern = regexp.MustCompile(`^localhost:\d+$`)

func cleanOrigin(origin string) string {
	cleanedOrigin := strings.TrimPrefix(origin, "https://")
	cleanedOrigin = strings.TrimPrefix(cleanedOrigin, "http://")
	if idx := strings.Index(cleanedOrigin, "/"); idx != -1 {
		cleanedOrigin = cleanedOrigin[:idx]
	}
	return cleanedOrigin
}

func isAllowedOrigin(origin string, allowedOrigins []string, devMode bool) bool {
	cleanedRequest := cleanOrigin(origin)

	// Local front end dev servers
	if devMode && localhostPattern.MatchString(cleanedRequest) {
		return true
	}

	for _, allowed := range allowedOrigins {
		if cleanOrigin(strings.TrimSpace(allowed)) == cleanedRequest {
			return true
		}
	}

	return false
}

func wrapMuxWithCorsAndOrigins(mux *http.ServeMux, config Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = r.Header.Get("Referer")
		}

		if origin == "" || isAllowedOrigin(origin, config.AllowedOrigins, config.DevMode) {
			handleCors(mux.ServeHTTP)(w, r)
			return
		}

		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("origin not allowed: " + cleanOrigin(origin)))
	})
}

func (app *Application) BuildRoutes(mux *http.ServeMux) *http.ServeMux {
	finalMux := http.NewServeMux()

	mux.HandleFunc("/", app.home)

	// Game session
	mux.HandleFunc("/v1/game", app.getGame)
	mux.HandleFunc("/v1/game/options", app.getGameOptions)
	mux.HandleFunc("/v1/game/start", app.startGame)
	mux.HandleFunc("/v1/game/choice", app.submitChoice)
	mux.HandleFunc("/v1/game/reset", app.resetGame)

	// Ranking board
	mux.HandleFunc("/v1/rankings", app.rankings)
	mux.HandleFunc("/v1/rankings/rank", app.getRank)

	finalMux.Handle("/", traceRequests(wrapMuxWithCorsAndOrigins(mux, app.Config)))

	return finalMux
}
