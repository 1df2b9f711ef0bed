// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package views renders the site's HTML pages.

Templates are embedded from templates/ and parsed once at start-up. Every
page is layout.html plus one page file defining "title" and "content":

	views.Render(w, http.StatusOK, views.Home, models.HomePage{...})
	views.RenderNotFound(w, user)

Render buffers the output, so a template error produces a 500 instead of a
half-written page. Page data types live in package models.
*/
package views
