package model

// AllModels lists every persisted entity, in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Freet{},
		&Thread{},
		&Like{},
		&Refreet{},
		&Follow{},
		&CredibilityScore{},
		&Contest{},
		&CredibilityFilter{},
		&Feed{},
		&Search{},
		&ChildRef{},
		&UserRef{},
	}
}
