package app

import (
	classifierHTTP "github.com/prateekro/trayme-guard/internal/classifier/http"
	classifierService "github.com/prateekro/trayme-guard/internal/classifier/service"
)

// Classifier returns the pattern classifier with the built-in rule table.
func (c *Container) Classifier() classifierService.Classifier {
	c.classifierInit.Do(func() {
		c.classifier = classifierService.NewDefaultClassifier()
	})
	return c.classifier
}

// ClassifierHandler returns the HTTP handler for classify and mask operations.
func (c *Container) ClassifierHandler() *classifierHTTP.ClassifierHandler {
	c.classifierHandlerInit.Do(func() {
		c.classifierHandler = classifierHTTP.NewClassifierHandler(c.Classifier(), c.Logger())
	})
	return c.classifierHandler
}
