package main

import (
	"github.com/vk/typeboot/internal/app"
	"github.com/vk/typeboot/internal/metadata"
	"github.com/vk/typeboot/internal/property"
)

type report struct {
	MappingStyle string
	Types        []typeReport
}

type typeReport struct {
	Type       string
	Kind       string
	IDProperty string `meta:"idProperty"`
	Properties []propertyReport
	Codec      bool
}

type propertyReport struct {
	Name       string
	Type       string
	Collection bool
}

func newReport(sys *app.System) report {
	r := report{MappingStyle: sys.MappingStyle().String()}
	for _, mc := range sys.Registry().Entries() {
		tr := typeReport{Type: mc.Class().String(), Kind: mc.Kind().String()}
		switch mc := mc.(type) {
		case *metadata.Entity:
			tr.IDProperty = mc.IDProperty().Name
			tr.Properties = propertyReports(mc.Properties())
		case *metadata.ValueObject:
			tr.Properties = propertyReports(mc.Properties())
		case *metadata.ValueType:
			tr.Codec = sys.Converter().Has(mc.Class())
		}
		r.Types = append(r.Types, tr)
	}
	return r
}

func propertyReports(props []property.Descriptor) []propertyReport {
	out := make([]propertyReport, 0, len(props))
	for _, p := range props {
		out = append(out, propertyReport{Name: p.Name, Type: p.Type.String(), Collection: p.Collection})
	}
	return out
}
