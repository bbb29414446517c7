// Package fieldmap holds the default mapping from model card form fields to
// ModelCards table columns.
//
// Field identifiers are the keys the form front-end and the spreadsheet
// templates use. Column identifiers are spliced verbatim into SQL, so names
// that collide with T-SQL reserved words are stored bracket-quoted here.
// Keep entries grouped by form section; new columns go at the end of their
// section so that generated DDL stays stable.
package fieldmap

import "github.com/cardops/modelcard/domain/model"

var defaultTable = model.MustMappingTable(entries...)

// Default returns the process-wide mapping table.
func Default() *model.MappingTable {
	return defaultTable
}

var entries = []model.Mapping{
	// Card header
	{Field: "name", Column: "[name]"},
	{Field: "description", Column: "[description]"},
	{Field: "group", Column: "[group]"},
	{Field: "modelStage", Column: "model_stage"},
	{Field: "tags", Column: "tags"},
	{Field: "custom.mocApplicationFormId", Column: "moc_application_form_id"},

	// Overview
	{Field: "custom.Overview.Name of the AI Solution", Column: "ov_solution_name"},
	{Field: "custom.Overview.Business Unit", Column: "ov_business_unit"},
	{Field: "custom.Overview.What business problem does the AI Solution address?", Column: "ov_business_problem"},
	{Field: "custom.Overview.Intended use of the AI Solution", Column: "ov_intended_use"},
	{Field: "custom.Overview.Out-of-scope uses", Column: "ov_out_of_scope_uses"},
	{Field: "custom.Overview.Is the AI Solution customer-facing?", Column: "ov_customer_facing"},
	{Field: "custom.Overview.Vendor or internally developed?", Column: "ov_vendor_or_internal"},
	{Field: "custom.Overview.Vendor Name", Column: "ov_vendor_name"},
	{Field: "custom.Overview.Target go-live date", Column: "ov_target_go_live"},

	// Accountability
	{Field: "custom.Accountability.Who is the business sponsor?", Column: "acc_business_sponsor"},
	{Field: "custom.Accountability.Who is the model owner?", Column: "acc_model_owner"},
	{Field: "custom.Accountability.Who is the technical lead?", Column: "acc_technical_lead"},
	{Field: "custom.Accountability.Which team will monitor the model in production?", Column: "acc_monitoring_team"},
	{Field: "custom.Accountability.Escalation contact", Column: "acc_escalation_contact"},

	// Data
	{Field: "custom.Data.What data sources are used to train the model?", Column: "data_training_sources"},
	{Field: "custom.Data.Does the training data contain PII?", Column: "data_contains_pii"},
	{Field: "custom.Data.Does the training data contain PHI?", Column: "data_contains_phi"},
	{Field: "custom.Data.Is third-party data used?", Column: "data_third_party"},
	{Field: "custom.Data.Date range of training data", Column: "data_training_date_range"},
	{Field: "custom.Data.Data retention period", Column: "data_retention_period"},

	// Model details
	{Field: "custom.Model Details.Algorithm or model family", Column: "md_algorithm"},
	{Field: "custom.Model Details.Model version", Column: "md_model_version"},
	{Field: "custom.Model Details.Programming language / framework", Column: "md_framework"},
	{Field: "custom.Model Details.Is the model a generative AI / LLM?", Column: "md_generative_ai"},
	{Field: "custom.Model Details.Foundation model provider", Column: "md_foundation_provider"},
	{Field: "custom.Model Details.Number of input features", Column: "md_feature_count"},

	// Performance
	{Field: "custom.Performance.Primary evaluation metric", Column: "perf_primary_metric"},
	{Field: "custom.Performance.Primary metric value", Column: "perf_primary_metric_value"},
	{Field: "custom.Performance.Acceptance threshold", Column: "perf_acceptance_threshold"},
	{Field: "custom.Performance.Validation dataset description", Column: "perf_validation_dataset"},

	// Fairness
	{Field: "custom.Fairness.Protected attributes evaluated", Column: "fair_protected_attributes"},
	{Field: "custom.Fairness.Bias testing performed?", Column: "fair_bias_tested"},
	{Field: "custom.Fairness.Bias testing results summary", Column: "fair_bias_results"},

	// Risk
	{Field: "custom.Risk.Risk tier", Column: "risk_tier"},
	{Field: "custom.Risk.What is the impact if the model fails?", Column: "risk_failure_impact"},
	{Field: "custom.Risk.Human-in-the-loop oversight?", Column: "risk_human_oversight"},
	{Field: "custom.Risk.Regulatory requirements (e.g. SR 11-7, EU AI Act)", Column: "risk_regulatory_requirements"},
	{Field: "custom.Risk.Known limitations", Column: "risk_known_limitations"},

	// Monitoring
	{Field: "custom.Monitoring.Monitoring frequency", Column: "mon_frequency"},
	{Field: "custom.Monitoring.Drift detection in place?", Column: "mon_drift_detection"},
	{Field: "custom.Monitoring.Retraining cadence", Column: "mon_retraining_cadence"},
	{Field: "custom.Monitoring.Decommission criteria", Column: "mon_decommission_criteria"},

	// Approval
	{Field: "custom.Approval.Approval status", Column: "appr_status"},
	{Field: "custom.Approval.Approved by", Column: "appr_approved_by"},
	{Field: "custom.Approval.Approval date", Column: "appr_approval_date"},
	{Field: "custom.Approval.Review comments", Column: "appr_comments"},
}
