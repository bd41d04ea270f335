package domain

// DefaultCatalog returns the seeded service catalog used when neither the
// remote sheet nor the local cache has a services collection. Prices are in
// whole rupees; the flags drive which form sections the front end shows.
func DefaultCatalog() []Service {
	return []Service{
		{
			ID:          "ration",
			Title:       "Ration Card",
			Description: "Apply for new ration card or updates to existing household data.",
			Icon:        "fa-solid fa-wheat-awn",
			Color:       "bg-emerald-500",
			Price:       150,
			HelpLink:    "/help/ration",
			RequiresAddress:        true,
			RequiresPhoto:          true,
			RequiresSignature:      true,
			RequiresMotherName:     true,
			RequiresFatherName:     true,
			AllowAdditionalMembers: true,
		},
		{
			ID:          "pan",
			Title:       "PAN Card",
			Description: "Fresh application or corrections for Permanent Account Number.",
			Icon:        "fa-solid fa-address-card",
			Color:       "bg-blue-600",
			Price:       150,
			HelpLink:    "/help/pan",
			RequiresPhoto:      true,
			RequiresSignature:  true,
			RequiresFatherName: true,
			RequiresDob:        true,
		},
		{
			ID:          "voter",
			Title:       "Voter ID",
			Description: "Registration for new voters or transfer of electoral constituency.",
			Icon:        "fa-solid fa-id-card-clip",
			Color:       "bg-indigo-600",
			Price:       50,
			HelpLink:    "/help/voter",
			RequiresEpic:       true,
			RequiresAddress:    true,
			RequiresPhoto:      true,
			RequiresSignature:  true,
			RequiresFatherName: true,
		},
		{
			ID:          "naksha",
			Title:       "नक्शा (Map)",
			Description: "Access official revenue maps for land surveys and documentation.",
			Icon:        "fa-solid fa-map-location-dot",
			Color:       "bg-teal-600",
			Price:       200,
			HelpLink:    "/help/naksha",
			RequiresLandDetails: true,
			RequiresAddress:     true,
		},
		{
			ID:          "mutation",
			Title:       "दाखिल खारिज (Mutation)",
			Description: "Apply for land mutation and update name in official revenue records.",
			Icon:        "fa-solid fa-file-signature",
			Color:       "bg-lime-600",
			Price:       350,
			HelpLink:    "/help/mutation",
			RequiresLandDetails: true,
			RequiresAddress:     true,
			RequiresFatherName:  true,
		},
		{
			ID:          "income-cert",
			Title:       "Income Certificate",
			Description: "Certification of annual household income for subsidies.",
			Icon:        "fa-solid fa-money-bill-trend-up",
			Color:       "bg-blue-500",
			Price:       10,
			HelpLink:    "/help/income-cert",
			RequiresAddress:    true,
			RequiresPhoto:      true,
			RequiresSignature:  true,
			RequiresMotherName: true,
			RequiresFatherName: true,
		},
		{
			ID:          "tatkalin",
			Title:       "Tatkalin Seva (Urgent)",
			Description: "Priority processing for Income, Caste, and Residential certificates.",
			Icon:        "fa-solid fa-bolt-lightning",
			Color:       "bg-orange-600",
			Price:       100,
			HelpLink:    "/help/tatkalin",
			RequiresAddress:    true,
			RequiresPhoto:      true,
			RequiresSignature:  true,
			RequiresFatherName: true,
		},
	}
}
