package page

// DefaultSite builds the demo site with index, report and action plan pages.
// profileName fills the profile menu.
func DefaultSite(profileName string) *Site {
	if profileName == "" {
		profileName = "Guest"
	}
	return NewSite(
		indexPage(profileName),
		reportPage(profileName),
		actionPlanPage(profileName),
	)
}

func header(profileName string) []*Region {
	return []*Region{
		{ID: RegionTopMenu, Label: "≡ Menu   Home · Report · Action plan"},
		{ID: RegionProfileMenu, Label: "◉ " + profileName},
	}
}

func indexPage(profileName string) *Page {
	p := New(RouteIndex, "Home", header(profileName)...)
	p.AddSection(&Section{
		ID:      "welcome",
		Heading: "Your health report",
		Text: []string{
			"Your results from the latest check-up are being prepared.",
			"Open the report from the menu once it is ready.",
		},
	})
	p.AddSection(&Section{
		ID:      "next-steps",
		Heading: "Next steps",
		Text: []string{
			"Book a follow-up consultation to go through your results.",
			"Your action plan collects the recommendations from your doctor.",
		},
	})
	return p
}

func reportPage(profileName string) *Page {
	regions := append(header(profileName),
		&Region{ID: RegionReportSelector, Label: "Report: Annual check-up 2025 ▾"},
		&Region{ID: RegionSystemNavigation, Label: "Systems", Items: []NavItem{
			{Label: "Heart and vessels"},
			{Label: "Metabolism"},
			{Label: "Kidneys"},
			{Label: "Imaging"},
		}},
		&Region{ID: RegionReportFilters, Label: "Filter: all results ▾"},
	)
	p := New(RouteReport, "Report", regions...)

	p.AddSection(&Section{
		ID:      "heart",
		Heading: "Heart and vessels",
		Panels: []*Panel{{
			ID:    "heart-results",
			Title: "Blood pressure and lipids",
			Results: []Result{
				{Name: "Systolic pressure", Value: "128 mmHg", Status: StatusInRange},
				{Name: "LDL cholesterol", Value: "3.6 mmol/L", Status: StatusAboveRange},
				{Name: "HDL cholesterol", Value: "1.4 mmol/L", Status: StatusInRange},
			},
		}},
	})
	p.AddSection(&Section{
		ID:      "metabolism",
		Heading: "Metabolism",
		Panels: []*Panel{{
			ID:    "blood-results",
			Title: "Blood panel",
			Results: []Result{
				{Name: "HbA1c", Value: "41 mmol/mol", Status: StatusMildRisk},
				{Name: "Ferritin", Value: "18 µg/L", Status: StatusBelowRange},
				{Name: "Vitamin D", Value: "72 nmol/L", Status: StatusInRange},
			},
		}},
	})
	p.AddSection(&Section{
		ID:      "kidneys",
		Heading: "Kidneys",
		Panels: []*Panel{{
			ID:    "kidney-results",
			Title: "Kidney function",
			Results: []Result{
				{Name: "Creatinine", Value: "78 µmol/L", Status: StatusInRange},
				{Name: "eGFR", Value: "> 90", Status: StatusInRange},
			},
		}},
	})
	p.AddSection(&Section{
		ID:      "imaging",
		Heading: "Imaging",
		Text:    []string{"Radiologist summary of your ultrasound."},
		Panels: []*Panel{{
			ID:    "imaging-results",
			Title: "Abdominal ultrasound",
			Results: []Result{
				{Name: "Liver", Value: "normal", Status: StatusInRange},
				{Name: "Gallbladder", Value: "normal", Status: StatusInRange},
			},
		}},
	})
	return p
}

func actionPlanPage(profileName string) *Page {
	p := New(RouteActionPlan, "Action plan", header(profileName)...)
	p.AddSection(&Section{
		ID:      "plan",
		Heading: "Your action plan",
		Text: []string{
			"1. Reduce saturated fat and recheck lipids in three months.",
			"2. Start an iron supplement and recheck ferritin.",
			"3. Keep up 150 minutes of moderate exercise per week.",
		},
	})
	return p
}
