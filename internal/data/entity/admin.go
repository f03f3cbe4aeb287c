package entity

// Admin is a staff account that scans customer codes and manages the menu.
type Admin struct {
	Credentials
}
