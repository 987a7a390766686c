package skycoach

// Selectors for the skycoach.gg configurator widget. The site is a Vue app;
// these class hooks are stable across its re-renders while the data-v-*
// attributes churn.
const (
	selOptionsContainer = ".product-detail-calculator__options"
	selOptionGroup      = ".option-group"
	selProductOption    = ".product-option"
	selOptionLabel      = ".product-option__label"

	selRangeCluster    = ".product-option-cluster-range"
	selRadioCluster    = ".product-option-cluster-radios"
	selButtonsCluster  = ".product-option-cluster-buttons"
	selCheckboxCluster = ".product-option-cluster-checkboxes"
	selSelectCluster   = ".product-option-cluster-select"

	selRangeKnob   = ".range__body .range__knob"
	selRangeScale  = ".range__scale-item"
	selNumberInput = ".input-container input[type='number']"
	selInputBox    = ".input-container"
	selInputLabel  = ".label"
	selRangeInputs = ".input-container input"

	selRadioOption = ".radio-option"
	selRadioInput  = "input[type='radio']"
	selRadioPrice  = ".radio-option__price"
	selChoiceLabel = ".radio-check__label"
	selRadioInfo   = ".radio-option__info"

	selCheckboxOption = ".checkbox-option"
	selCheckboxInput  = "input[type='checkbox']"
	selCheckboxPrice  = ".checkbox-option__price"
	selCheckboxInfo   = ".checkbox-option__info"

	selButtonLabel = ".button-option__label"

	selSelectTag = "select"
	selSelectOpt = "option"
)
