package internal

// Version is the current signopsis release
const Version = "0.4.0"
