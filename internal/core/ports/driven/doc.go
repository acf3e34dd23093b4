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
//   - HandoffStore: The popup-to-opener channel for handshake outcomes
//   - PopupLauncher: Opens the browser popup for one handshake
//   - AuthURLMinter: Builds the third-party authorization URL
//   - TokenExchanger: Swaps an authorization code for durable credentials
//   - StoreConnectionStore: Store connection persistence
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
