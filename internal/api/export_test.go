package api

// ToOpenAPIPath exposes toOpenAPIPath to the external test package.
var ToOpenAPIPath = toOpenAPIPath
