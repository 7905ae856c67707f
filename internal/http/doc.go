// Package http provides optional HTTP adapters for the storefront engine.
//
// Routes mount under a configurable base path:
//   - Stores: /stores, /stores/{subdomain}, /stores/{subdomain}/theme
//   - Templates: /stores/{subdomain}/templates/{type}/sections
//   - Pages: /stores/{subdomain}/pages/{type} renders the compiled template
//   - Preview: /stores/{subdomain}/preview/{type}/ws upgrades to a websocket
//     speaking the editor synchronization protocol
//
// Host applications can register handlers on their own mux/router as needed.
package http
