package intelligence

// BmrConfig holds the Mifflin-St Jeor coefficients used for basal
// metabolic rate estimation.
type BmrConfig struct {
	MsjWeightCoef float64
	MsjHeightCoef float64
	MsjAgeCoef    float64
	MsjMaleConst  float64
	MsjFemaleConst float64
}

// ActivityFactorsConfig scales BMR into total daily energy expenditure.
// Must be strictly ascending and within [1.0, 2.5].
type ActivityFactorsConfig struct {
	Sedentary       float64
	LightlyActive   float64
	ModeratelyActive float64
	VeryActive      float64
	ExtraActive     float64
}

// MacronutrientConfig bounds recommended macronutrient intake.
type MacronutrientConfig struct {
	ProteinMinGPerKg          float64
	ProteinModerateGPerKg     float64
	ProteinStrengthMaxGPerKg  float64
	CarbsLowActivityGPerKg    float64
	CarbsHighEnduranceGPerKg  float64
	FatMinPercentTDEE         float64
	FatMaxPercentTDEE         float64
}

// MacroDistribution is a normalized protein/carb/fat split, expressed as
// fractions of total calories summing to 1.0.
type MacroDistribution struct {
	ProteinFraction float64
	CarbFraction    float64
	FatFraction     float64
}

// NutrientTimingConfig bounds pre/post-workout fueling windows.
type NutrientTimingConfig struct {
	PreWorkoutWindowHours       float64
	PostWorkoutWindowHours      float64
	PostWorkoutProteinGMin      float64
	PostWorkoutProteinGMax      float64
	ProteinMealsPerDayMin       int
	ProteinMealsPerDayOptimal   int
}

// UsdaApiConfig configures the USDA FoodData Central lookup used for meal
// nutrient estimation.
type UsdaApiConfig struct {
	TimeoutSecs  int
	CacheTTLHours int
	BaseURL      string
}

// MealTdeeProportionsConfig splits total daily energy across meals.
type MealTdeeProportionsConfig struct {
	BreakfastPercent float64
	LunchPercent     float64
	DinnerPercent    float64
	SnacksPercent    float64
}

// MealFallbackCaloriesConfig is used when a meal's TDEE proportion can't be
// computed (e.g. unknown total daily energy).
type MealFallbackCaloriesConfig struct {
	BreakfastKcal int
	LunchKcal     int
	DinnerKcal    int
	SnackKcal     int
}

// MealTimingMacrosConfig distributes macros within each meal slot; every
// slot's distribution must sum to 100%.
type MealTimingMacrosConfig struct {
	Breakfast MacroDistribution
	Lunch     MacroDistribution
	Dinner    MacroDistribution
	Snack     MacroDistribution
}

// Validate checks that every meal slot's macro distribution sums to
// approximately 1.0 (100%).
func (m MealTimingMacrosConfig) Validate() error {
	for name, dist := range map[string]MacroDistribution{
		"breakfast": m.Breakfast,
		"lunch":     m.Lunch,
		"dinner":    m.Dinner,
		"snack":     m.Snack,
	} {
		sum := dist.ProteinFraction + dist.CarbFraction + dist.FatFraction
		if diff := sum - 1.0; diff > 0.01 || diff < -0.01 {
			return &ValidationError{Message: "meal timing macros for " + name + " must sum to 1.0"}
		}
	}
	return nil
}

// NutritionConfig is the full nutrition configuration surface.
type NutritionConfig struct {
	BMR               BmrConfig
	ActivityFactors   ActivityFactorsConfig
	Macronutrients    MacronutrientConfig
	NutrientTiming    NutrientTimingConfig
	USDAApi           UsdaApiConfig
	MealTdeeProportions MealTdeeProportionsConfig
	MealFallbackCalories MealFallbackCaloriesConfig
	MealTimingMacros  MealTimingMacrosConfig
}

func defaultNutritionConfig() NutritionConfig {
	return NutritionConfig{
		BMR: BmrConfig{
			MsjWeightCoef:  10.0,
			MsjHeightCoef:  6.25,
			MsjAgeCoef:     5.0,
			MsjMaleConst:   5.0,
			MsjFemaleConst: -161.0,
		},
		ActivityFactors: ActivityFactorsConfig{
			Sedentary:        1.2,
			LightlyActive:    1.375,
			ModeratelyActive: 1.55,
			VeryActive:       1.725,
			ExtraActive:      1.9,
		},
		Macronutrients: MacronutrientConfig{
			ProteinMinGPerKg:         0.8,
			ProteinModerateGPerKg:    1.6,
			ProteinStrengthMaxGPerKg: 2.2,
			CarbsLowActivityGPerKg:   3.0,
			CarbsHighEnduranceGPerKg: 10.0,
			FatMinPercentTDEE:        20.0,
			FatMaxPercentTDEE:        35.0,
		},
		NutrientTiming: NutrientTimingConfig{
			PreWorkoutWindowHours:     3.0,
			PostWorkoutWindowHours:    2.0,
			PostWorkoutProteinGMin:    20.0,
			PostWorkoutProteinGMax:    40.0,
			ProteinMealsPerDayMin:     3,
			ProteinMealsPerDayOptimal: 4,
		},
		USDAApi: UsdaApiConfig{
			TimeoutSecs:   10,
			CacheTTLHours: 24,
			BaseURL:       "https://api.nal.usda.gov/fdc/v1",
		},
		MealTdeeProportions: MealTdeeProportionsConfig{
			BreakfastPercent: 25.0,
			LunchPercent:     35.0,
			DinnerPercent:    30.0,
			SnacksPercent:    10.0,
		},
		MealFallbackCalories: MealFallbackCaloriesConfig{
			BreakfastKcal: 500,
			LunchKcal:     700,
			DinnerKcal:    600,
			SnackKcal:     200,
		},
		MealTimingMacros: MealTimingMacrosConfig{
			Breakfast: MacroDistribution{ProteinFraction: 0.25, CarbFraction: 0.55, FatFraction: 0.20},
			Lunch:     MacroDistribution{ProteinFraction: 0.30, CarbFraction: 0.45, FatFraction: 0.25},
			Dinner:    MacroDistribution{ProteinFraction: 0.35, CarbFraction: 0.35, FatFraction: 0.30},
			Snack:     MacroDistribution{ProteinFraction: 0.20, CarbFraction: 0.50, FatFraction: 0.30},
		},
	}
}
