// Package alerts implements the threshold rule engine and webhook delivery.
// Rules are evaluated against flattened samples built from security
// assessments and speed-test reports; webhooks are delivered to Teams,
// Slack, or generic HTTP targets.
package alerts
