package anyskema

// ResetRegistry clears the global adapter registry between tests.
func ResetRegistry() { resetRegistry() }
