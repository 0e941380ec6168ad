// Package uitest helps test Bubble Tea models and styled output.
//
// [NewTestModel] runs any [BubbleModel] in a teatest program, including
// models whose Update returns their concrete type:
//
//	m := settings.New(cfg, app)
//	tm := uitest.NewTestModel(t, m, uitest.Compact)
//	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
//	final := uitest.FinalModel(t, tm, time.Second)
//
// [FindStyle] reports the attributes applied to a piece of rendered text:
//
//	uitest.SetupColorProfile()
//	s, ok := uitest.FindStyle(view, "quellcode")
package uitest
