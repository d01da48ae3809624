package initializers

// LeCun scales by the number of inputs: variance 1/fan-in. It suits sigmoid layers.
func LeCun() *varianceScaling {
	return VarianceScaling().In()
}

// He scales by the number of inputs with a factor of 2.
func He() *varianceScaling {
	return VarianceScaling().In().Factor(2)
}

// Xavier scales by the average of the numbers of inputs and outputs.
func Xavier() *varianceScaling {
	return VarianceScaling().Avg()
}

// Glorot is another name for Xavier.
func Glorot() *varianceScaling {
	return Xavier()
}
