package gui

import "fyne.io/fyne/v2"

var iconData = []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 256 256">
<rect width="256" height="256" rx="48" fill="#5fd3c7"/>
<path d="M96 200V96a14 14 0 0 1 28 0v56V64a14 14 0 0 1 28 0v88V80a14 14 0 0 1 28 0v96c0 24-20 40-44 40h-8c-18 0-30-8-40-22l-28-40a14 14 0 0 1 22-16z" fill="#ffffff"/>
</svg>`)

// GetAppIcon returns the application icon as a Fyne resource
func GetAppIcon() fyne.Resource {
	return &fyne.StaticResource{
		StaticName:    "signopsis.svg",
		StaticContent: iconData,
	}
}
