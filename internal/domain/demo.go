package domain

// DemoPlan returns the demonstration plan shown when no API key is configured.
// The caller assigns ID and CreatedAt.
func DemoPlan(userName string) FitnessPlan {
	if userName == "" {
		userName = "Demo User"
	}
	return FitnessPlan{
		UserName:      userName,
		Goal:          "Muscle Gain Demo",
		Duration:      "3 Days/Week",
		Summary:       "This is a demonstration plan designed to showcase the capabilities of the application.",
		TotalCalories: 2600,
		Preferences: &UserPreferences{
			Name: userName, Age: 25, Gender: "Male", Weight: 75, Height: 180,
			Goal: "Muscle Gain", Level: "Intermediate", Equipment: "Gym",
			Diet: "None", WorkoutDays: []string{"Mon", "Wed", "Fri"},
			Injuries: "None", Allergies: "None", Medications: "None", Remarks: "None",
			MealsPerDay: 3,
		},
		Days: []DayPlan{
			{
				Day: "Monday",
				Workout: []Exercise{
					{
						ID: "w1", Name: "Barbell Squat", Sets: "4", Reps: "8-10", Rest: "120s", Notes: "Keep chest up.",
						Instructions: []string{"Place bar on upper back.", "Feet shoulder width.", "Squat down until thighs are parallel.", "Drive back up."},
					},
					{
						ID: "w2", Name: "Bench Press", Sets: "3", Reps: "10", Rest: "90s", Notes: "Control the bar.",
						Instructions: []string{"Lie on bench.", "Grip bar wider than shoulders.", "Lower bar to chest.", "Press back up."},
					},
				},
				Meals: []Meal{
					{
						ID: "m1", Name: "Oatmeal Protein Bowl", Calories: 550, Protein: 35, Carbs: 60, Fat: 12,
						Ingredients: []string{"Oats", "Whey Protein", "Berries"},
						Recipe:      []string{"Cook oats in water.", "Stir in whey protein.", "Top with berries."},
					},
				},
			},
		},
	}
}
