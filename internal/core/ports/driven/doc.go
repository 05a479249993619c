// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - AuthGateway: Login/profile/logout calls against the remote API
//   - IngestGateway: Submission, status, training and deletion calls
//   - SearchGateway: Raw hybrid and per-document search calls
//   - CredentialStore: Durable credential persistence (two named slots)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ArtifactCache: Local listing/state cache. Without it, every listing
//     goes to the network.
//   - CredentialWatcher: Change notification for the credential file.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
