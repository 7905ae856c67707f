package stores

import storefrontstores "github.com/goliatone/go-storefront/stores"

type (
	Store    = storefrontstores.Store
	Template = storefrontstores.Template
)
