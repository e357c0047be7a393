package webapi

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	apiTitleRe  = regexp.MustCompile(`(?m)^API:\s*(.+?)(?:\s+\([^)]*\))?\s*$`)
	operationRe = regexp.MustCompile(`(?m)^\s*(GET|POST|PUT|PATCH|DELETE|HEAD|OPTIONS|TRACE)\s+(/\S*)(?:\s+\(([^)]+)\))?`)
)

// backendEscaper reproduces the escaping the real service leaves in its
// string fields.
var backendEscaper = strings.NewReplacer("\n", `\n`, `"`, `\"`)

func escapeLikeBackend(s string) string {
	return backendEscaper.Replace(s)
}

type apiOperation struct {
	method string
	path   string
	id     string
}

// methodName is the Java method name for the operation.
func (o apiOperation) methodName() string {
	if o.id != "" {
		return lowerFirst(identifier(o.id))
	}
	return strings.ToLower(o.method) + identifier(o.path)
}

type apiDetails struct {
	name       string
	operations []apiOperation
}

// parseDetails reads the plain-text details produced by parseSwagger.
// Free-form details fall back to a single generic operation.
func parseDetails(details string) apiDetails {
	d := apiDetails{name: "Generated"}
	if m := apiTitleRe.FindStringSubmatch(details); m != nil {
		if id := identifier(m[1]); id != "" {
			d.name = id
		}
	}
	for _, m := range operationRe.FindAllStringSubmatch(details, -1) {
		d.operations = append(d.operations, apiOperation{method: m[1], path: m[2], id: m[3]})
	}
	if len(d.operations) == 0 {
		d.operations = []apiOperation{{method: "GET", path: "/"}}
	}
	return d
}

func (d apiDetails) feature(testTypes []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "@api\nFeature: %s API\n\n", d.name)
	sb.WriteString("  Background:\n    Given the API base URI is configured\n")
	for _, tt := range testTypes {
		for _, op := range d.operations {
			fmt.Fprintf(&sb, "\n  @%s\n  Scenario: %s %s %s\n", tt, tt, op.method, op.path)
			fmt.Fprintf(&sb, "    When I send a %s request to \"%s\"\n", op.method, op.path)
			fmt.Fprintf(&sb, "    Then the response status should be %s\n", expectedStatus(tt))
		}
	}
	return sb.String()
}

func (d apiDetails) apiClass() string {
	var sb strings.Builder
	sb.WriteString("import io.restassured.response.Response;\n")
	sb.WriteString("import io.restassured.specification.RequestSpecification;\n\n")
	sb.WriteString("import static io.restassured.RestAssured.given;\n\n")
	fmt.Fprintf(&sb, "public class %sApi {\n", d.name)
	sb.WriteString("    private final RequestSpecification spec;\n\n")
	fmt.Fprintf(&sb, "    public %sApi(RequestSpecification spec) {\n        this.spec = spec;\n    }\n", d.name)
	for _, op := range d.operations {
		fmt.Fprintf(&sb, "\n    public Response %s() {\n", op.methodName())
		fmt.Fprintf(&sb, "        return given().spec(spec).when().%s(\"%s\");\n    }\n", strings.ToLower(op.method), op.path)
	}
	sb.WriteString("}\n")
	return sb.String()
}

func (d apiDetails) pojo() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "public class %sModel {\n", d.name)
	sb.WriteString("    private String id;\n    private String name;\n\n")
	sb.WriteString("    public String getId() {\n        return id;\n    }\n\n")
	sb.WriteString("    public void setId(String id) {\n        this.id = id;\n    }\n\n")
	sb.WriteString("    public String getName() {\n        return name;\n    }\n\n")
	sb.WriteString("    public void setName(String name) {\n        this.name = name;\n    }\n}\n")
	return sb.String()
}

func (d apiDetails) steps() string {
	var sb strings.Builder
	sb.WriteString("import io.cucumber.java.en.Given;\nimport io.cucumber.java.en.Then;\nimport io.cucumber.java.en.When;\n")
	sb.WriteString("import io.restassured.response.Response;\n\n")
	sb.WriteString("import static org.junit.Assert.assertEquals;\n\n")
	fmt.Fprintf(&sb, "public class %sSteps {\n", d.name)
	sb.WriteString("    private Response response;\n\n")
	sb.WriteString("    @Given(\"the API base URI is configured\")\n    public void baseUriConfigured() {\n    }\n\n")
	sb.WriteString("    @When(\"I send a {word} request to {string}\")\n    public void sendRequest(String method, String path) {\n")
	sb.WriteString("        response = io.restassured.RestAssured.given().request(method, path);\n    }\n\n")
	sb.WriteString("    @Then(\"the response status should be {int}\")\n    public void checkStatus(int status) {\n")
	sb.WriteString("        assertEquals(status, response.getStatusCode());\n    }\n}\n")
	return sb.String()
}

func expectedStatus(testType string) string {
	switch testType {
	case "negative":
		return "400"
	case "edge":
		return "422"
	default:
		return "200"
	}
}

// featureForTestCase builds the Gherkin the backend would fetch from Spira.
func featureForTestCase(id string) string {
	tag := strings.ToLower(identifier(id))
	if tag == "" {
		tag = "testcase"
	}
	return fmt.Sprintf(`@%s
Feature: Spira test case %s

  Scenario: Verify test case %s
    Given the user opens the "<application>" home page
    When the user performs the steps of test case %s
    Then the expected result "<result>" is displayed
`, tag, id, id, id)
}

func reviewFeedback(sub *resumeSubmission) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Resume Review: %s\n\n", sub.Name)
	fmt.Fprintf(&sb, "**Role applied:** %s\n", sub.RoleApplied)
	fmt.Fprintf(&sb, "**Experience:** %s (%s)\n\n", sub.PresentExperience, sub.RelevantExperience)
	sb.WriteString("| Criteria | Assessment | Score |\n|---|---|---|\n")
	fmt.Fprintf(&sb, "| Role fit | Applied for %s | %d/5 |\n", sub.RoleApplied, 3)
	fmt.Fprintf(&sb, "| Front-end automation | %s | %d/5 |\n", skillList(sub.FrontEndSkills), skillScore(sub.FrontEndSkills))
	fmt.Fprintf(&sb, "| Back-end automation | %s | %d/5 |\n", skillList(sub.BackEndSkills), skillScore(sub.BackEndSkills))
	fmt.Fprintf(&sb, "| Resume file | %s (%d bytes) | - |\n\n", sub.FileName, sub.FileSize)
	sb.WriteString("### Recommendations\n")
	if len(sub.FrontEndSkills) == 0 {
		sb.WriteString("- Add UI automation experience (Selenium or Playwright).\n")
	}
	if len(sub.BackEndSkills) == 0 {
		sb.WriteString("- Add API automation experience (Postman or RestAssured).\n")
	}
	sb.WriteString("- Quantify the impact of automation work with concrete numbers.")
	return sb.String()
}

func skillList(skills []string) string {
	if len(skills) == 0 {
		return "None listed"
	}
	return strings.Join(skills, ", ")
}

func skillScore(skills []string) int {
	return min(1+2*len(skills), 5)
}

// identifier joins the alphanumeric words of s in CamelCase.
func identifier(s string) string {
	var sb strings.Builder
	for _, word := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		r := []rune(word)
		sb.WriteString(string(unicode.ToUpper(r[0])) + string(r[1:]))
	}
	return sb.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
