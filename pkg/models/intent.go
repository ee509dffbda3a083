package models

// Intent is the metric or action a question asks about.
type Intent string

const (
	IntentGroundwater        Intent = "groundwater"
	IntentRainfall           Intent = "rainfall"
	IntentRechargeWorthyArea Intent = "recharge_worthy_area"
	IntentSafeBlocks         Intent = "safe_blocks"
	IntentCriticality        Intent = "criticality"
	IntentHowMuchWater       Intent = "how_much_water"
	IntentSafeToExtract      Intent = "safe_to_extract"
	IntentStatus             Intent = "status"
	IntentLoss               Intent = "loss"
	IntentGreeting           Intent = "greeting"
	IntentUnknown            Intent = "unknown"
)

// IsLocationScoped reports whether the intent is answered for a single resolved
// state or district rather than over a filtered record list.
func (i Intent) IsLocationScoped() bool {
	switch i {
	case IntentGroundwater, IntentRainfall, IntentRechargeWorthyArea, IntentSafeBlocks, IntentCriticality:
		return true
	default:
		return false
	}
}

// Classification is the outcome of classifying a question. Chart composes with
// any intent.
type Classification struct {
	Intent Intent
	Chart  bool
}
