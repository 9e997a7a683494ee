// Package health provides liveness and readiness probes.
//
// [LivenessHandler] always answers OK while the process runs.
// [ReadinessHandler] runs a set of [Checks] concurrently and answers 503
// when any of them fails. Both respond in plain text unless the client asks
// for JSON (Accept: application/json or ?format=json):
//
//	{
//	  "status": "unhealthy",
//	  "checks": {
//	    "store": {"status": "unhealthy", "error": "postgres: healthcheck failed"}
//	  }
//	}
//
// [Evaluate] runs the same checks without HTTP, for CLI probes:
//
//	resp, err := health.Evaluate(ctx, health.Checks{
//	    "store": postgres.Healthcheck(pool),
//	}, health.WithTimeout(3*time.Second))
package health
