// Package logx configures minikv's structured logging.
//
// It is a small wrapper (logx.Logger) on top of zerolog that keeps:
//   - Console output readable (short timestamp + short caller)
//   - File output JSON-structured, optionally rate limited so a
//     misbehaving store can't flood the disk
//   - Live reconfiguration via Service.Apply (config hot reload)
package logx
