package detector

// Detect exposes detect for testing without a terminal.
var Detect = detect
