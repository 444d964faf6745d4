package types

type IndicatorType string

const (
	IndicatorTypeMA      IndicatorType = "ma"
	IndicatorTypeHighest IndicatorType = "highest"
	IndicatorTypeLowest  IndicatorType = "lowest"
)
