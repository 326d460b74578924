// Package requestlog defines the request history model: one Entry per
// served request, stored by an implementation of Store for later inspection.
package requestlog
