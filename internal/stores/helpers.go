package stores

func cloneStore(src *Store) *Store {
	if src == nil {
		return nil
	}
	out := *src
	out.ContactEmail = cloneString(src.ContactEmail)
	out.Description = cloneString(src.Description)
	out.Templates = nil
	return &out
}

func cloneString(src *string) *string {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}
