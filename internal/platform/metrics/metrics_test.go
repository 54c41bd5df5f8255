package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func scrape(r *Recorder) string {
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestRecorder(t *testing.T) {
	Convey("Given a recorder on its own registry", t, func() {
		recorder := New(WithRegistry(prometheus.NewRegistry()), WithNamespace("test"))

		Convey("When engine outcomes are observed", func() {
			recorder.MutationApplied("assign")
			recorder.MutationApplied("assign")
			recorder.MutationRolledBack("clear")
			recorder.GhostMinted()
			recorder.GhostResolved(3)
			recorder.PlayersDropped(2)
			recorder.PlayersDropped(0)
			recorder.ReconcileFinished(5, 2, 1)

			body := scrape(recorder)

			Convey("Then every counter is exposed", func() {
				So(body, ShouldContainSubstring, `test_engine_mutations_applied_total{op="assign"} 2`)
				So(body, ShouldContainSubstring, `test_engine_mutations_rolled_back_total{op="clear"} 1`)
				So(body, ShouldContainSubstring, "test_engine_ghosts_minted_total 1")
				So(body, ShouldContainSubstring, "test_engine_ghosts_resolved_total 1")
				So(body, ShouldContainSubstring, "test_engine_ghost_events_resolved_total 3")
				So(body, ShouldContainSubstring, "test_engine_formation_players_dropped_total 2")
				So(body, ShouldContainSubstring, "test_reconcile_runs_total 1")
				So(body, ShouldContainSubstring, `test_reconcile_matches_total{outcome="unchanged"} 2`)
			})
		})

		Convey("When an HTTP request is observed", func() {
			recorder.ObserveHTTP("GET /v1/matches/{matchID}", http.MethodGet, http.StatusNotFound, 15*time.Millisecond)
			body := scrape(recorder)

			Convey("Then it is labelled by route and status", func() {
				So(body, ShouldContainSubstring, `test_http_requests_total{code="404",method="GET",route="GET /v1/matches/{matchID}"} 1`)
				So(body, ShouldContainSubstring, "test_http_request_duration_seconds_count")
			})
		})
	})

	Convey("Given a recorder with defaults", t, func() {
		recorder := New()

		Convey("Then runtime collectors are registered", func() {
			So(scrape(recorder), ShouldContainSubstring, "go_goroutines")
		})
	})
}
