// Package templates provides starter page manifests for the init command.
//
//	tmpl, err := templates.Get("showcase")
//	if err != nil {
//	    return err
//	}
//	err = tmpl.Create("demo", templates.Config{Title: "Demo"})
package templates
