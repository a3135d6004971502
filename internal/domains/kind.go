package domains

import (
	"fmt"
	"strings"

	"citizenportal/internal/wizard"
)

type Kind string

const (
	KindScheme            Kind = "scheme"
	KindCertificate       Kind = "certificate"
	KindContactDepartment Kind = "contact_department"
	KindEmergencyService  Kind = "emergency_service"
)

type Collection string

const (
	CollectionProcessSteps Collection = "process_steps"
	CollectionDocuments    Collection = "documents"
	CollectionContacts     Collection = "contacts"
	CollectionEligibility  Collection = "eligibility"
)

const (
	AppTypeNew        = "New Application"
	AppTypeLost       = "Lost Application"
	AppTypeCorrection = "Correction"
	AppTypeRenewal    = "Renewal"
)

// Schema describes what one content kind carries and what it needs before it
// can be published.
type Schema struct {
	Kind              Kind
	Segment           string
	Singular          string
	Plural            string
	Collections       []Collection
	RequiredToPublish []Collection
	DetailKeys        []string
	RequiredDetails   []string
	ApplicationTypes  []string
	Flow              wizard.Flow
}

var schemas = []Schema{
	{
		Kind:              KindScheme,
		Segment:           "schemes",
		Singular:          "scheme",
		Plural:            "schemes",
		Collections:       []Collection{CollectionProcessSteps, CollectionDocuments, CollectionContacts, CollectionEligibility},
		RequiredToPublish: []Collection{CollectionProcessSteps, CollectionDocuments},
		DetailKeys:        []string{"benefits", "ministry", "website"},
		ApplicationTypes:  []string{AppTypeNew, AppTypeRenewal},
		Flow: wizard.NewFlow(true,
			wizard.Step{Key: "process-steps", Title: "Application process", Collection: string(CollectionProcessSteps)},
			wizard.Step{Key: "documents", Title: "Required documents", Collection: string(CollectionDocuments)},
			wizard.Step{Key: "eligibility", Title: "Eligibility", Collection: string(CollectionEligibility)},
			wizard.Step{Key: "contacts", Title: "Contact persons", Collection: string(CollectionContacts)},
			wizard.Step{Key: "publish", Title: "Review and publish"},
		),
	},
	{
		Kind:              KindCertificate,
		Segment:           "certificates",
		Singular:          "certificate",
		Plural:            "certificates",
		Collections:       []Collection{CollectionProcessSteps, CollectionDocuments, CollectionContacts},
		RequiredToPublish: []Collection{CollectionProcessSteps, CollectionDocuments},
		DetailKeys:        []string{"fee", "processing_time", "validity", "issuing_authority"},
		RequiredDetails:   []string{"fee", "processing_time"},
		ApplicationTypes:  []string{AppTypeNew, AppTypeLost, AppTypeCorrection, AppTypeRenewal},
		Flow: wizard.NewFlow(true,
			wizard.Step{Key: "process-steps", Title: "Application process", Collection: string(CollectionProcessSteps)},
			wizard.Step{Key: "documents", Title: "Required documents", Collection: string(CollectionDocuments)},
			wizard.Step{Key: "contacts", Title: "Contact persons", Collection: string(CollectionContacts)},
			wizard.Step{Key: "publish", Title: "Review and publish"},
		),
	},
	{
		Kind:              KindContactDepartment,
		Segment:           "contact-departments",
		Singular:          "contactDepartment",
		Plural:            "contactDepartments",
		Collections:       []Collection{CollectionContacts},
		RequiredToPublish: []Collection{CollectionContacts},
		DetailKeys:        []string{"address", "email", "phone", "office_hours"},
		Flow: wizard.NewFlow(false,
			wizard.Step{Key: "contacts", Title: "Officials", Collection: string(CollectionContacts)},
			wizard.Step{Key: "publish", Title: "Review and publish"},
		),
	},
	{
		Kind:              KindEmergencyService,
		Segment:           "emergency-services",
		Singular:          "emergencyService",
		Plural:            "emergencyServices",
		Collections:       []Collection{CollectionContacts},
		RequiredToPublish: []Collection{CollectionContacts},
		DetailKeys:        []string{"helpline", "availability"},
		RequiredDetails:   []string{"helpline"},
		Flow: wizard.NewFlow(false,
			wizard.Step{Key: "contacts", Title: "Helpline contacts", Collection: string(CollectionContacts)},
			wizard.Step{Key: "publish", Title: "Review and publish"},
		),
	},
}

func Schemas() []Schema {
	cp := make([]Schema, len(schemas))
	copy(cp, schemas)
	return cp
}

func SchemaFor(kind Kind) (Schema, error) {
	for _, s := range schemas {
		if s.Kind == kind {
			return s, nil
		}
	}
	return Schema{}, fmt.Errorf("unknown content kind %q", kind)
}

func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if _, err := SchemaFor(k); err != nil {
		return "", err
	}
	return k, nil
}

func (s Schema) HasCollection(c Collection) bool {
	for _, have := range s.Collections {
		if have == c {
			return true
		}
	}
	return false
}

func (s Schema) AcceptsDetail(key string) bool {
	for _, k := range s.DetailKeys {
		if k == key {
			return true
		}
	}
	return false
}

// AcceptsApplicationType treats the empty tag as "applies to every
// application type".
func (s Schema) AcceptsApplicationType(tag string) bool {
	if tag == "" {
		return true
	}
	for _, t := range s.ApplicationTypes {
		if t == tag {
			return true
		}
	}
	return false
}
