package domain

// NavLink describes a navigable endpoint from the navigation table.
type NavLink struct {
	ID          string
	InnerText   string
	Href        string
	PathName    string
	QueryString string
	Header      string
	Menu        string
	Method      string
	Active      bool
}

// NavMenu groups headers under a menu for the client shell.
type NavMenu struct {
	Menu    string
	Headers []string
}
