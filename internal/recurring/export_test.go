package recurring

// nextDueDate is exported for use in the external test package.
var NextDueDate = nextDueDate
