// Package core defines the wire types shared by every grantview layer:
// grants as the service returns them, the create request, the service
// error body and the health report.
//
// pkg/core imports only the standard library. Everything else depends on
// core, not the reverse.
package core
