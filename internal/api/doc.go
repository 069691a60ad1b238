// Package api implements the HTTP JSON surface over the assessor state.
//
// Routes (all under /api/v1):
//
//	GET  /health             overall environment posture and counts
//	GET  /networks           live assessed networks
//	GET  /networks/{bssid}   one assessed network
//	GET  /audit              full environment security audit
//	GET  /speedtests         speed-test history, newest first (?limit=N)
//	GET  /speedtests/latest  most recent speed-test report
//	POST /speedtests         trigger a run — 202 accepted, 409 when busy
//	GET  /alerts             firing and recently resolved alerts
//	GET  /snapshot           combined dump, same schema the WebSocket hub pushes
package api
