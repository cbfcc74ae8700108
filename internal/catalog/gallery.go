package catalog

// NextImage advances the carousel, wrapping from the last image to the first
func NextImage(current, count int) int {
	if count <= 0 {
		return 0
	}
	if current < 0 || current >= count-1 {
		return 0
	}
	return current + 1
}

// PrevImage steps the carousel back, wrapping from the first image to the last
func PrevImage(current, count int) int {
	if count <= 0 {
		return 0
	}
	if current <= 0 || current >= count {
		return count - 1
	}
	return current - 1
}

// SelectImage jumps to requested when it is a valid index, otherwise keeps current
func SelectImage(current, requested, count int) int {
	if count <= 0 {
		return 0
	}
	if requested < 0 || requested >= count {
		return current
	}
	return requested
}
